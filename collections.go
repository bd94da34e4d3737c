package ftk

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

// TaskState enumerates the lifecycle states of one enterprise-collection
// task. Collection state names differ from job state names and are ordered
// by progress, which is what makes the min aggregation in Collection work.
type TaskState int

const (
	TaskUnknown    TaskState = -1
	TaskBlocked    TaskState = 0
	TaskFailed     TaskState = 1
	TaskInProgress TaskState = 2
	TaskCompleted  TaskState = 3
	TaskFinished   TaskState = TaskCompleted
)

func (s TaskState) String() string {
	switch s {
	case TaskBlocked:
		return "Blocked"
	case TaskFailed:
		return "Failed"
	case TaskInProgress:
		return "InProgress"
	case TaskCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

var taskStateNames = map[string]TaskState{
	"Blocked":    TaskBlocked,
	"Failed":     TaskFailed,
	"InProgress": TaskInProgress,
	"Completed":  TaskCompleted,
	"Finished":   TaskFinished,
}

// parseTaskState maps the service's status name to its enumeration value.
// Unlike job states, an unrecognized name degrades to Unknown; the service
// reports transient per-target statuses this client does not track.
func parseTaskState(name string) TaskState {
	state, ok := taskStateNames[name]
	if !ok {
		return TaskUnknown
	}
	return state
}

// Task is one target's share of an enterprise collection.
type Task struct {
	JobID     int64
	Name      string
	State     TaskState
	TargetIP  string
	Custodian string

	// Raw holds the full task record as returned by the service.
	Raw map[string]any
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Raw = raw

	if id, ok := raw["jobId"].(float64); ok {
		t.JobID = int64(id)
	}
	t.Name, _ = raw["jobName"].(string)
	t.TargetIP, _ = raw["targetIP"].(string)
	t.Custodian, _ = raw["custodian"].(string)

	status, _ := raw["jobStatus"].(string)
	t.State = parseTaskState(status)
	return nil
}

// Collection groups the per-target tasks of one enterprise-collection run.
type Collection struct {
	ID    int64
	Name  string
	Tasks []*Task

	// State is the least-progressed state across the tasks, so a collection
	// reads Completed only once every target has finished.
	State TaskState
}

// Targets returns the collection's tasks keyed by target address.
func (c *Collection) Targets() map[string]*Task {
	targets := make(map[string]*Task, len(c.Tasks))
	for _, task := range c.Tasks {
		targets[task.TargetIP] = task
	}
	return targets
}

// TargetIPs returns the target addresses in task order.
func (c *Collection) TargetIPs() []string {
	ips := make([]string, 0, len(c.Tasks))
	for _, task := range c.Tasks {
		ips = append(ips, task.TargetIP)
	}
	return ips
}

// ExecuteCollectionRequest describes an enterprise collection to start.
type ExecuteCollectionRequest struct {
	// TemplateID selects the collection template. Required.
	TemplateID int64

	// Name labels the run. Defaults to a timestamped "API-Collection" name.
	Name string

	Custodians []string
	Targets    []string
}

type executeCollectionBody struct {
	JobName     string   `json:"jobname"`
	Case        string   `json:"case"`
	Custodians  []string `json:"custodians"`
	Targets     []string `json:"targets"`
	TemplateIDs []int64  `json:"templateids"`
}

// CollectionService lists and starts enterprise collections.
type CollectionService interface {
	// List returns all collections visible to the caller, grouping the
	// service's flat task list by run.
	List(ctx context.Context, opts ...RequestOption) ([]*Collection, error)

	// Execute starts a collection from a template and returns the created
	// job handle, already refreshed once.
	Execute(ctx context.Context, caseID int64, req *ExecuteCollectionRequest, opts ...RequestOption) (*Job, error)
}

type collectionService struct {
	transport *api.Transport
	jobs      JobService
}

func newCollectionService(transport *api.Transport, jobs JobService) *collectionService {
	return &collectionService{transport: transport, jobs: jobs}
}

func (s *collectionService) List(ctx context.Context, opts ...RequestOption) ([]*Collection, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var tasks []*Task
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    api.CollectionTaskListPath,
		Headers: reqCfg.headers,
	}, &tasks)
	if err != nil {
		return nil, err
	}
	return groupTasks(tasks), nil
}

// groupTasks folds the flat task list into collections, preserving the order
// in which runs first appear.
func groupTasks(tasks []*Task) []*Collection {
	byID := make(map[int64]*Collection)
	var collections []*Collection
	for _, task := range tasks {
		collection, ok := byID[task.JobID]
		if !ok {
			collection = &Collection{
				ID:    task.JobID,
				Name:  task.Name,
				State: task.State,
			}
			byID[task.JobID] = collection
			collections = append(collections, collection)
		}
		collection.Tasks = append(collection.Tasks, task)
		if task.State < collection.State {
			collection.State = task.State
		}
	}
	return collections
}

func (s *collectionService) Execute(ctx context.Context, caseID int64, req *ExecuteCollectionRequest, opts ...RequestOption) (*Job, error) {
	if req == nil || req.TemplateID == 0 {
		return nil, usageError("collection template id is required")
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	name := req.Name
	if name == "" {
		name = "API-Collection_" + time.Now().Format("20060102-150405")
	}

	var jobID int64
	_, err := do(ctx, s.transport, &api.Request{
		Method: http.MethodPost,
		Path:   api.CollectionExecutePath,
		Body: &executeCollectionBody{
			JobName:     name,
			Case:        strconv.FormatInt(caseID, 10),
			Custodians:  req.Custodians,
			Targets:     req.Targets,
			TemplateIDs: []int64{req.TemplateID},
		},
		Headers: reqCfg.headers,
	}, &jobID)
	if err != nil {
		return nil, err
	}

	return s.jobs.Get(ctx, caseID, jobID, opts...)
}
