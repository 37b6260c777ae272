package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qbitlab/grover-qpu/backend"
	"github.com/qbitlab/grover-qpu/circuit"
	"github.com/qbitlab/grover-qpu/ibmq"
	"github.com/qbitlab/grover-qpu/internal/config"
	"github.com/qbitlab/grover-qpu/observe"
	"github.com/qbitlab/grover-qpu/results"
	"github.com/qbitlab/grover-qpu/results/sqlite"
	"github.com/qbitlab/grover-qpu/runner"
)

const (
	defaultRunTimeout      = 2 * time.Hour
	defaultRetrieveTimeout = 2 * time.Minute
)

// runBackends validates connectivity and lists every visible QPU.
func runBackends(ctx context.Context, args []string) {
	parseArgs(args)
	client := buildClient()

	backends, err := client.Backends(ctx)
	if err != nil {
		log.Fatalf("connection to IBM Quantum failed: %v", err)
	}

	qpus := 0
	for _, b := range backends {
		if b.Simulator {
			continue
		}
		qpus++
		state := "operational"
		if !b.Operational {
			state = "offline"
		}
		fmt.Printf("%-20s %4d qubits  queue %-5d %s\n", b.Name, b.NumQubits, b.PendingJobs, state)
	}
	if qpus == 0 {
		fmt.Println("no QPUs visible to this instance; check your plan at https://quantum.ibm.com/")
		return
	}
	fmt.Printf("\nconnection ok, %d QPU(s) available\n", qpus)
}

// runCircuit builds the Grover circuit and renders it.
func runCircuit(args []string) {
	_ = args
	c := circuit.BuildGrover2Bit()

	fmt.Printf("Grover search for |%s> over 2 qubits\n\n", circuit.TargetState)
	fmt.Println(c.Draw())
	fmt.Println(c.Summarize())
	fmt.Println("stage walkthrough:")
	fmt.Println("  1. initial:        |00>")
	fmt.Println("  2. superposition:  (|00> + |01> + |10> + |11>) / 2")
	fmt.Printf("  3. oracle:         amplitude of |%s> negated\n", circuit.TargetState)
	fmt.Printf("  4. diffusion:      ~|%s>, target amplified\n", circuit.TargetState)
}

// runGrover is the end-to-end path: select a backend, submit, wait,
// analyze, persist.
func runGrover(ctx context.Context, args []string) {
	opts, _ := parseArgs(args)
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}

	cfg, err := config.Load(opts.configPath)
	if errors.Is(err, fs.ErrNotExist) && opts.configPath == config.DefaultPath {
		log.Printf("no config file at %s; using defaults", config.DefaultPath)
		cfg = config.Default()
	} else if err != nil {
		log.Fatal(err)
	}
	client := buildClient()
	observer, closeObserver := buildObserver()
	defer closeObserver()
	history := openHistory(opts.resultsDir)
	defer closeHistory(history)

	runID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fmt.Printf("shots: %d  optimization level: %d\n", cfg.Shots, cfg.OptimizationLevel)
	fmt.Printf("preferred QPUs: %s (fallback %s)\n\n", strings.Join(cfg.PreferredQPUs, ", "), cfg.FallbackQPU)

	selected, err := backend.Select(ctx, client, backend.Preferences{
		Preferred: cfg.PreferredQPUs,
		Fallback:  cfg.FallbackQPU,
	})
	if err != nil {
		emit(ctx, observer, observe.Event{RunID: runID, Kind: observe.KindBackend, Status: observe.StatusFailed, Error: err.Error()})
		closeObserver()
		log.Fatalf("backend selection failed: %v", err)
	}
	emit(ctx, observer, observe.Event{RunID: runID, Kind: observe.KindBackend, Status: observe.StatusCompleted, Backend: selected.Name})
	fmt.Printf("selected %s (%d qubits, queue %d)\n", selected.Name, selected.NumQubits, selected.PendingJobs)
	fmt.Println("waiting for the QPU; queue time can range from minutes to hours...")
	fmt.Println("the job keeps running remotely if this process stops; retrieve it later by ID")

	started := time.Now()
	emit(ctx, observer, observe.Event{RunID: runID, Kind: observe.KindJob, Status: observe.StatusStarted, Backend: selected.Name})
	result, err := runner.Run(ctx, client, selected, runner.Config{
		Shots:             cfg.Shots,
		OptimizationLevel: cfg.OptimizationLevel,
		Tags:              []string{"grover-2bit"},
	})
	if err != nil {
		emit(ctx, observer, observe.Event{
			RunID: runID, Kind: observe.KindJob, Status: observe.StatusFailed,
			Backend: selected.Name, JobID: result.JobID, Error: err.Error(),
			DurationMs: time.Since(started).Milliseconds(),
		})
		closeObserver()
		if result.JobID != "" {
			log.Fatalf("run failed (job %s still referenced remotely): %v", result.JobID, err)
		}
		log.Fatalf("run failed: %v", err)
	}
	emit(ctx, observer, observe.Event{
		RunID: runID, Kind: observe.KindJob, Status: observe.StatusCompleted,
		Backend: selected.Name, JobID: result.JobID,
		DurationMs: time.Since(started).Milliseconds(),
	})

	fmt.Printf("\njob %s completed on %s\n\n%s\n", result.JobID, result.Backend, result.Report)

	persist(ctx, history, opts.resultsDir, sqlite.SourceRun, results.Record{
		JobID:         result.JobID,
		Backend:       result.Backend,
		Counts:        result.Counts,
		Fidelity:      result.Report.Fidelity,
		TotalShots:    result.Report.TotalShots,
		ExpectedState: circuit.TargetState,
	})
	fmt.Printf("job ID for later retrieval: %s\n", result.JobID)
}

// runRetrieve fetches a previously submitted job by ID.
func runRetrieve(ctx context.Context, args []string) {
	opts, positional := parseArgs(args)
	if len(positional) < 1 || strings.TrimSpace(positional[0]) == "" {
		log.Fatal("usage: grover retrieve [--results-dir=PATH] <job-id>")
	}
	jobID := strings.TrimSpace(positional[0])

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = defaultRetrieveTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := buildClient()
	observer, closeObserver := buildObserver()
	defer closeObserver()
	history := openHistory(opts.resultsDir)
	defer closeHistory(history)

	counts, err := runner.Retrieve(ctx, client, jobID)
	if errors.Is(err, ibmq.ErrJobNotFound) {
		emit(ctx, observer, observe.Event{Kind: observe.KindRetrieve, Status: observe.StatusFailed, JobID: jobID, Error: err.Error()})
		fmt.Printf("job %s not found; it may have aged out of the provider's retention window\n", jobID)
		return
	}
	if err != nil {
		log.Fatalf("retrieval failed: %v", err)
	}
	emit(ctx, observer, observe.Event{Kind: observe.KindRetrieve, Status: observe.StatusCompleted, JobID: jobID})

	report, err := runner.Analyze(counts, circuit.TargetState)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}
	fmt.Printf("job %s\n\n%s\n", jobID, report)

	persist(ctx, history, opts.resultsDir, sqlite.SourceRetrieve, results.Record{
		JobID:         jobID,
		Counts:        counts,
		Fidelity:      report.Fidelity,
		TotalShots:    report.TotalShots,
		ExpectedState: circuit.TargetState,
	})
}

// runHistory lists recent runs from the local history store.
func runHistory(ctx context.Context, args []string) {
	opts, positional := parseArgs(args)
	limit := 0
	if len(positional) > 0 {
		if n, err := strconv.Atoi(positional[0]); err == nil {
			limit = n
		}
	}

	history := openHistory(opts.resultsDir)
	if history == nil {
		log.Fatal("no run history available")
	}
	defer closeHistory(history)

	entries, err := history.List(ctx, limit)
	if err != nil {
		log.Fatalf("failed to list history: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("no runs recorded yet")
		return
	}
	for _, e := range entries {
		backendName := e.Record.Backend
		if backendName == "" {
			backendName = "-"
		}
		fmt.Printf("%s  %-8s  %-20s  job %-24s  fidelity %6.2f%%  shots %d\n",
			e.Record.CreatedAt.Local().Format(time.DateTime),
			e.Source, backendName, e.Record.JobID, e.Record.Fidelity*100, e.Record.TotalShots)
	}
}

// persist writes the JSON record and appends to history. A storage
// failure after a completed hardware run should not discard the
// measured distribution, so both paths log instead of exiting.
func persist(ctx context.Context, history *sqlite.Store, dir, source string, rec results.Record) {
	path, err := results.Save(dir, rec)
	if err != nil {
		log.Printf("failed to save result record: %v", err)
	} else {
		fmt.Printf("results saved to %s\n", path)
	}
	if history != nil {
		if _, err := history.Append(ctx, source, rec); err != nil {
			log.Printf("failed to append run history: %v", err)
		}
	}
}

func emit(ctx context.Context, sink observe.Sink, event observe.Event) {
	if sink == nil {
		return
	}
	_ = sink.Emit(ctx, event)
}
