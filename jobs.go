package ftk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

// JobState enumerates the lifecycle states of an asynchronous server-side
// task. The numeric values are the service's own state codes; Finished is
// the service's alternate name for Completed.
type JobState int

const (
	JobSubmitted           JobState = 0
	JobInProgress          JobState = 1
	JobCancelled           JobState = 2
	JobFailed              JobState = 3
	JobCompleted           JobState = 4
	JobFinished            JobState = JobCompleted
	JobCompletedWithErrors JobState = 6
)

// Terminal reports whether the state is final. Submitted and InProgress are
// the only non-terminal states.
func (s JobState) Terminal() bool {
	switch s {
	case JobCancelled, JobFailed, JobCompleted, JobCompletedWithErrors:
		return true
	default:
		return false
	}
}

func (s JobState) String() string {
	switch s {
	case JobSubmitted:
		return "Submitted"
	case JobInProgress:
		return "InProgress"
	case JobCancelled:
		return "Cancelled"
	case JobFailed:
		return "Failed"
	case JobCompleted:
		return "Completed"
	case JobCompletedWithErrors:
		return "CompletedWithErrors"
	default:
		return "Unknown"
	}
}

var jobStateNames = map[string]JobState{
	"Submitted":           JobSubmitted,
	"InProgress":          JobInProgress,
	"Cancelled":           JobCancelled,
	"Failed":              JobFailed,
	"Completed":           JobCompleted,
	"Finished":            JobFinished,
	"CompletedWithErrors": JobCompletedWithErrors,
}

// parseJobState maps the service's state name to its enumeration value. An
// unrecognized name is a contract violation and surfaces as an error.
func parseJobState(name string) (JobState, error) {
	state, ok := jobStateNames[name]
	if !ok {
		return 0, fmt.Errorf("ftk: unknown job state %q", name)
	}
	return state, nil
}

// Job is a handle to one asynchronous server-side task. Its fields reflect
// the last Refresh; the service never pushes state, so callers polling for
// completion must refresh before each check.
type Job struct {
	CaseID int64
	ID     int64

	// State is the last-observed lifecycle state.
	State JobState

	// ResultData is the job's decoded result payload. The service delivers
	// it as a string-encoded JSON value.
	ResultData any

	// Raw holds the full last status response.
	Raw map[string]any
}

// AwaitOptions tunes the Await polling loop.
type AwaitOptions struct {
	// Interval between polls. Defaults to one second.
	Interval time.Duration

	// MaxPolls caps the number of refreshes; zero means unbounded, leaving
	// the context deadline as the only stop condition.
	MaxPolls int
}

// JobService tracks remote asynchronous tasks through to a terminal state.
type JobService interface {
	// Get wraps a server-assigned job id and performs one immediate refresh
	// so the handle starts with real status.
	Get(ctx context.Context, caseID, jobID int64, opts ...RequestOption) (*Job, error)

	// Refresh re-fetches the job's status and overwrites all cached fields.
	// Transport errors propagate unchanged; Refresh never retries.
	Refresh(ctx context.Context, job *Job, opts ...RequestOption) error

	// Await polls until the job reaches a terminal state, pausing between
	// refreshes. It retries on non-terminal state only: any refresh error
	// aborts the wait.
	Await(ctx context.Context, job *Job, opts *AwaitOptions) error
}

type jobService struct {
	transport *api.Transport
}

func newJobService(transport *api.Transport) *jobService {
	return &jobService{transport: transport}
}

func (s *jobService) Get(ctx context.Context, caseID, jobID int64, opts ...RequestOption) (*Job, error) {
	job := &Job{CaseID: caseID, ID: jobID}
	if err := s.Refresh(ctx, job, opts...); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) Refresh(ctx context.Context, job *Job, opts ...RequestOption) error {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var raw map[string]any
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf(api.JobStatusPath, job.CaseID, job.ID),
		Headers: reqCfg.headers,
	}, &raw)
	if err != nil {
		return err
	}

	stateName, _ := raw["state"].(string)
	state, err := parseJobState(stateName)
	if err != nil {
		return err
	}

	var result any
	if encoded, ok := raw["resultData"].(string); ok && encoded != "" {
		// The field is string-encoded JSON; failing to decode it is a
		// contract violation, not something to swallow.
		if err := json.Unmarshal([]byte(encoded), &result); err != nil {
			return fmt.Errorf("ftk: decoding job %d result data: %w", job.ID, err)
		}
	}

	job.State = state
	job.ResultData = result
	job.Raw = raw
	return nil
}

// errJobNotTerminal drives the Await retry loop; it never escapes Await
// unless the poll budget runs out first.
var errJobNotTerminal = errors.New("ftk: job has not reached a terminal state")

func (s *jobService) Await(ctx context.Context, job *Job, opts *AwaitOptions) error {
	if job.State.Terminal() {
		return nil
	}

	interval := time.Second
	maxPolls := 0
	if opts != nil {
		if opts.Interval > 0 {
			interval = opts.Interval
		}
		maxPolls = opts.MaxPolls
	}

	operation := func() (JobState, error) {
		if err := s.Refresh(ctx, job); err != nil {
			return 0, backoff.Permanent(err)
		}
		if !job.State.Terminal() {
			return 0, errJobNotTerminal
		}
		return job.State, nil
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
	}
	if maxPolls > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxTries(uint(maxPolls)))
	}

	_, err := backoff.Retry(ctx, operation, retryOpts...)
	return err
}
