package cli

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	sdkotel "go.opentelemetry.io/otel"

	"github.com/qbitlab/grover-qpu/ibmq"
	"github.com/qbitlab/grover-qpu/internal/config"
	"github.com/qbitlab/grover-qpu/observe"
	otelsink "github.com/qbitlab/grover-qpu/observe/otel"
	tracedb "github.com/qbitlab/grover-qpu/observe/store/sqlite"
	"github.com/qbitlab/grover-qpu/results/sqlite"
)

// buildClient reads the credentials and constructs the Runtime client.
// Missing or blank secrets are fatal here, before any network call.
func buildClient() *ibmq.Client {
	creds, err := config.LoadCredentials()
	if err != nil {
		log.Fatal(err)
	}
	client, err := ibmq.New(creds.APIKey, creds.Instance)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

// buildObserver assembles the event sinks from the environment and
// returns the composite sink plus a close func that drains it.
//
// GROVER_OTEL=false disables the OpenTelemetry bridge (it is a noop
// anyway unless the process installed a tracer provider). Setting
// GROVER_TRACE_DB to a path enables the local sqlite trace store,
// written asynchronously; GROVER_TRACE_BUFFER sizes its queue.
func buildObserver() (observe.Sink, func()) {
	var sinks []observe.Sink
	closers := func() {}

	if parseBoolEnv("GROVER_OTEL", true) {
		sinks = append(sinks, otelsink.NewSink(sdkotel.GetTracerProvider()))
	}

	if path := strings.TrimSpace(os.Getenv("GROVER_TRACE_DB")); path != "" {
		store, err := tracedb.Open(path)
		if err != nil {
			log.Printf("trace db disabled: %v", err)
		} else {
			async := observe.NewAsyncSink(store, config.ParseIntEnv("GROVER_TRACE_BUFFER", 256))
			sinks = append(sinks, async)
			closers = func() {
				async.Close()
				if err := store.Close(); err != nil {
					log.Printf("trace db close failed: %v", err)
				}
			}
		}
	}

	return observe.NewMultiSink(sinks...), closers
}

func parseBoolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	return config.ParseBoolString(raw, fallback)
}

// openHistory opens the local run history next to the JSON records.
// History is best-effort: a failure to open it is logged, not fatal,
// and the run proceeds without it.
func openHistory(resultsDir string) *sqlite.Store {
	store, err := sqlite.Open(filepath.Join(resultsDir, "history.db"))
	if err != nil {
		log.Printf("run history disabled: %v", err)
		return nil
	}
	return store
}

func closeHistory(store *sqlite.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Printf("history store close failed: %v", err)
	}
}
