package runner

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/qbitlab/grover-qpu/circuit"
	"github.com/qbitlab/grover-qpu/ibmq"
)

type fakeService struct {
	submitted  ibmq.JobRequest
	jobID      string
	counts     ibmq.Counts
	waitErr    error
	resultsErr error
}

func (f *fakeService) SubmitJob(ctx context.Context, req ibmq.JobRequest) (string, error) {
	f.submitted = req
	return f.jobID, nil
}

func (f *fakeService) WaitForJob(ctx context.Context, jobID string) (ibmq.Counts, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return f.counts, nil
}

func (f *fakeService) Results(ctx context.Context, jobID string) (ibmq.Counts, error) {
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.counts, nil
}

func TestRun_SubmitsLoweredCircuitAndScoresResult(t *testing.T) {
	svc := &fakeService{
		jobID:  "job-42",
		counts: ibmq.Counts{"11": 3072, "00": 512, "01": 256, "10": 256},
	}
	b := ibmq.Backend{Name: "qpuA", BasisGates: []string{"x", "sx", "rz", "cx"}}

	result, err := Run(context.Background(), svc, b, Config{Shots: 4096, OptimizationLevel: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.JobID != "job-42" || result.Backend != "qpuA" {
		t.Fatalf("unexpected result identity: %+v", result)
	}
	if math.Abs(result.Report.Fidelity-0.75) > 1e-9 {
		t.Fatalf("expected fidelity 0.75, got %v", result.Report.Fidelity)
	}
	if svc.submitted.Shots != 4096 {
		t.Fatalf("unexpected shots submitted: %d", svc.submitted.Shots)
	}
	// The basis has no native cz, so the submitted QASM must be lowered.
	if strings.Contains(svc.submitted.QASM, "cz ") {
		t.Fatalf("submitted QASM still contains cz:\n%s", svc.submitted.QASM)
	}
	if !strings.Contains(svc.submitted.QASM, "c = measure q;") {
		t.Fatalf("submitted QASM missing measurement:\n%s", svc.submitted.QASM)
	}
}

func TestRun_KeepsJobIDWhenWaitFails(t *testing.T) {
	svc := &fakeService{
		jobID:   "job-7",
		waitErr: &ibmq.JobError{JobID: "job-7", Status: ibmq.StatusFailed, Reason: "quota exceeded"},
	}

	result, err := Run(context.Background(), svc, ibmq.Backend{Name: "qpuB"}, Config{Shots: 1024})
	var jobErr *ibmq.JobError
	if !errors.As(err, &jobErr) {
		t.Fatalf("expected *ibmq.JobError, got %v", err)
	}
	if result.JobID != "job-7" {
		t.Fatalf("job id lost on failure: %+v", result)
	}
}

func TestRetrieve_SurfacesNotFound(t *testing.T) {
	svc := &fakeService{resultsErr: ibmq.ErrJobNotFound}
	if _, err := Retrieve(context.Background(), svc, "gone"); !errors.Is(err, ibmq.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := Retrieve(context.Background(), svc, ""); err == nil {
		t.Fatal("expected error for empty job id")
	}
}

func TestAnalyze_FidelityDefinitionAndBounds(t *testing.T) {
	cases := []struct {
		name   string
		counts ibmq.Counts
		want   float64
	}{
		{"ideal", ibmq.Counts{"11": 4096}, 1.0},
		{"noisy", ibmq.Counts{"11": 3, "00": 1}, 0.75},
		{"target absent", ibmq.Counts{"00": 10, "01": 6}, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Analyze(tc.counts, circuit.TargetState)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if math.Abs(report.Fidelity-tc.want) > 1e-9 {
				t.Fatalf("expected fidelity %v, got %v", tc.want, report.Fidelity)
			}
			if report.Fidelity < 0 || report.Fidelity > 1 {
				t.Fatalf("fidelity out of bounds: %v", report.Fidelity)
			}
			if report.TotalShots != tc.counts.TotalShots() {
				t.Fatalf("total shots mismatch: %d", report.TotalShots)
			}
		})
	}
}

func TestAnalyze_RejectsEmptyCounts(t *testing.T) {
	if _, err := Analyze(ibmq.Counts{}, "11"); err == nil {
		t.Fatal("expected error for empty counts")
	}
}

func TestReport_RowsSortedByFrequency(t *testing.T) {
	report, err := Analyze(ibmq.Counts{"00": 5, "11": 90, "01": 5}, "11")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Rows[0].State != "11" {
		t.Fatalf("expected most frequent state first, got %+v", report.Rows)
	}
	out := report.String()
	if !strings.Contains(out, "<- target") {
		t.Fatalf("rendered report missing target marker:\n%s", out)
	}
}
