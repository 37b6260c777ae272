// Package runner drives one Grover execution end to end: build the
// circuit, lower it to the selected backend's gate set, submit, block
// on completion, and score the measured distribution against the
// target state. It also retrieves previously submitted jobs by ID.
package runner

import (
	"context"
	"fmt"

	"github.com/qbitlab/grover-qpu/circuit"
	"github.com/qbitlab/grover-qpu/ibmq"
)

// Service is the slice of the Runtime client the runner uses.
// *ibmq.Client satisfies it.
type Service interface {
	SubmitJob(ctx context.Context, req ibmq.JobRequest) (string, error)
	WaitForJob(ctx context.Context, jobID string) (ibmq.Counts, error)
	Results(ctx context.Context, jobID string) (ibmq.Counts, error)
}

// Config carries the execution knobs from the config file.
type Config struct {
	Shots             int
	OptimizationLevel int
	Tags              []string
}

// Result is everything one completed run produced.
type Result struct {
	Counts  ibmq.Counts
	JobID   string
	Backend string
	Report  Report
}

// Run executes the Grover circuit on the given backend and blocks
// until the remote job reaches a terminal state. Queue time is bounded
// only by the context. All remote failures surface unchanged.
func Run(ctx context.Context, svc Service, b ibmq.Backend, cfg Config) (Result, error) {
	c := circuit.BuildGrover2Bit().Lower(b.BasisGates)

	jobID, err := svc.SubmitJob(ctx, ibmq.JobRequest{
		Backend:           b.Name,
		QASM:              c.ToQASM3(),
		Shots:             cfg.Shots,
		OptimizationLevel: cfg.OptimizationLevel,
		Tags:              cfg.Tags,
	})
	if err != nil {
		return Result{}, err
	}

	counts, err := svc.WaitForJob(ctx, jobID)
	if err != nil {
		// The job keeps running remotely; hand the ID back so the
		// caller can retrieve it later.
		return Result{JobID: jobID, Backend: b.Name}, err
	}

	report, err := Analyze(counts, circuit.TargetState)
	if err != nil {
		return Result{JobID: jobID, Backend: b.Name}, err
	}
	return Result{
		Counts:  counts,
		JobID:   jobID,
		Backend: b.Name,
		Report:  report,
	}, nil
}

// Retrieve fetches the counts of a previously submitted job. A job the
// service no longer knows returns ibmq.ErrJobNotFound; that is a
// reportable condition, not a crash.
func Retrieve(ctx context.Context, svc Service, jobID string) (ibmq.Counts, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	return svc.Results(ctx, jobID)
}
