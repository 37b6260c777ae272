package cli

import "fmt"

func printUsage() {
	fmt.Println("grover - run a 2-qubit Grover search on IBM Quantum hardware")
	fmt.Println("Usage:")
	fmt.Println("  grover backends                      validate connectivity and list QPUs")
	fmt.Println("  grover circuit                       build and draw the Grover circuit")
	fmt.Println("  grover run [flags]                   execute end to end on the best QPU")
	fmt.Println("  grover retrieve [flags] <job-id>     fetch results of a prior job")
	fmt.Println("  grover history [n]                   list recent local run records")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --config=PATH        config file (default config/backends.json)")
	fmt.Println("  --results-dir=PATH   where result records are written (default results)")
	fmt.Println("  --timeout=DUR        bound on waiting for the remote job (e.g. 45m)")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  IBM_API_KEY             IBM Quantum API key (or set in .env)")
	fmt.Println("  QISKIT_IBM_INSTANCE     instance CRN (or set in .env)")
	fmt.Println("  GROVER_TRACE_DB         path of a local sqlite event trace (off by default)")
	fmt.Println("  GROVER_TRACE_BUFFER     trace write queue size (default 256)")
	fmt.Println("  GROVER_OTEL             set to false to disable the OpenTelemetry bridge")
}
