package ibmq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// JobRequest carries everything the sampler primitive needs for one
// submission. The circuit is already lowered to the backend's basis
// and serialized as OpenQASM 3.
type JobRequest struct {
	Backend           string
	QASM              string
	Shots             int
	OptimizationLevel int
	Tags              []string
}

// Counts maps a measured bitstring to its observed frequency. The
// values sum to the submitted shot count once a job completes.
type Counts map[string]int

// TotalShots sums all observed frequencies.
func (c Counts) TotalShots() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Job states as reported by the Runtime API.
const (
	StatusQueued    = "Queued"
	StatusRunning   = "Running"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
	StatusCancelled = "Cancelled"
)

// JobStatus is one polled snapshot of a remote job.
type JobStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Terminal reports whether the job has stopped, successfully or not.
func (s JobStatus) Terminal() bool {
	switch s.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// JobError is a job that reached a terminal state other than Completed.
// The remote reason is carried verbatim, never rewritten.
type JobError struct {
	JobID  string
	Status string
	Reason string
}

func (e *JobError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("job %s ended with status %s", e.JobID, e.Status)
	}
	return fmt.Sprintf("job %s ended with status %s: %s", e.JobID, e.Status, e.Reason)
}

// SubmitJob sends the circuit to the sampler and returns the remote job
// ID. Submission failures are not retried; quota and validation errors
// come back as APIError with the service's own message.
func (c *Client) SubmitJob(ctx context.Context, req JobRequest) (string, error) {
	if req.Backend == "" {
		return "", fmt.Errorf("backend name is required")
	}
	if req.Shots <= 0 {
		return "", fmt.Errorf("shots must be positive, got %d", req.Shots)
	}

	payload := jobPayload{
		ProgramID: "sampler",
		Backend:   req.Backend,
		Params: jobParams{
			Circuits:          []string{req.QASM},
			Shots:             req.Shots,
			OptimizationLevel: req.OptimizationLevel,
		},
		Tags: req.Tags,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "POST", "/jobs", payload, &created); err != nil {
		return "", fmt.Errorf("failed to submit job: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("service accepted the job but returned no id")
	}
	return created.ID, nil
}

// Status fetches the current state of a job. An unknown job ID surfaces
// as ErrJobNotFound.
func (c *Client) Status(ctx context.Context, jobID string) (JobStatus, error) {
	var status JobStatus
	if err := c.do(ctx, "GET", "/jobs/"+url.PathEscape(jobID), nil, &status); err != nil {
		return JobStatus{}, jobNotFoundOr(err, jobID)
	}
	if status.ID == "" {
		status.ID = jobID
	}
	return status, nil
}

// Results fetches the measurement counts of a completed job. A job the
// service no longer knows about surfaces as ErrJobNotFound; empty
// counts are never fabricated.
func (c *Client) Results(ctx context.Context, jobID string) (Counts, error) {
	var result struct {
		Counts Counts `json:"counts"`
	}
	if err := c.do(ctx, "GET", "/jobs/"+url.PathEscape(jobID)+"/results", nil, &result); err != nil {
		return nil, jobNotFoundOr(err, jobID)
	}
	if len(result.Counts) == 0 {
		return nil, fmt.Errorf("%w: job %s returned no counts", ErrJobNotFound, jobID)
	}
	return result.Counts, nil
}

// WaitForJob blocks until the job reaches a terminal state, then
// returns its counts. Queue time on real hardware ranges from minutes
// to hours, so callers bound the wait with the context. Transient
// failures during polling are retried per the client's RetryPolicy;
// a Failed or Cancelled job surfaces as *JobError.
func (c *Client) WaitForJob(ctx context.Context, jobID string) (Counts, error) {
	for {
		status, err := c.pollStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case StatusCompleted:
			return c.Results(ctx, jobID)
		case StatusFailed, StatusCancelled:
			return nil, &JobError{JobID: jobID, Status: status.Status, Reason: status.Reason}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gave up waiting for job %s: %w", jobID, ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

type jobPayload struct {
	ProgramID string    `json:"program_id"`
	Backend   string    `json:"backend"`
	Params    jobParams `json:"params"`
	Tags      []string  `json:"tags,omitempty"`
}

type jobParams struct {
	Circuits          []string `json:"circuits"`
	Shots             int      `json:"shots"`
	OptimizationLevel int      `json:"optimization_level"`
}

// jobNotFoundOr translates a 404 from a job endpoint into the
// ErrJobNotFound sentinel. Other errors pass through unchanged; 404s
// from non-job endpoints never reach this and stay APIErrors.
func jobNotFoundOr(err error, jobID string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: job %s", ErrJobNotFound, jobID)
	}
	return err
}

// pollStatus is one Status call wrapped in the retry policy.
func (c *Client) pollStatus(ctx context.Context, jobID string) (JobStatus, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		status, err := c.Status(ctx, jobID)
		if err == nil {
			return status, nil
		}
		lastErr = err
		if !transient(err) || attempt == c.retry.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return JobStatus{}, ctx.Err()
		case <-time.After(c.retry.backoffForAttempt(attempt)):
		}
	}
	return JobStatus{}, lastErr
}
