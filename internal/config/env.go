package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Credentials are the two IBM Quantum secrets, read once at process
// start: the API key and the instance CRN.
type Credentials struct {
	APIKey   string
	Instance string
}

// LoadCredentials reads IBM_API_KEY and QISKIT_IBM_INSTANCE from the
// environment, loading a .env file first when one exists. Missing
// secrets are fatal to the caller; there is nothing to retry.
func LoadCredentials() (Credentials, error) {
	// A missing .env is fine; the variables may be set directly.
	_ = godotenv.Load()

	apiKey := strings.TrimSpace(os.Getenv("IBM_API_KEY"))
	instance := strings.TrimSpace(os.Getenv("QISKIT_IBM_INSTANCE"))

	if apiKey == "" {
		return Credentials{}, fmt.Errorf(
			"IBM_API_KEY is not set; create an API key at https://quantum.ibm.com/ and export it or add it to .env")
	}
	if instance == "" {
		return Credentials{}, fmt.Errorf(
			"QISKIT_IBM_INSTANCE is not set; copy your instance CRN from https://quantum.ibm.com/ and export it or add it to .env")
	}
	return Credentials{APIKey: apiKey, Instance: instance}, nil
}

func ParseIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func ParseBoolString(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
