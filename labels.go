package ftk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

// Label is a tag applicable to case objects, used both as annotation and as
// the correlation mechanism for keyword search results.
type Label struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// labelAssignment is the label-apply request body.
type labelAssignment struct {
	FolderAssignmentOptions folderAssignmentOptions `json:"folderAssignmentOptions"`
	Filter                  Filter                  `json:"filter"`
}

type folderAssignmentOptions struct {
	FilterForFolder    struct{} `json:"filterForFolder"`
	SearchSessionID    any      `json:"searchSessionID"`
	FolderIDsForAssign []int64  `json:"folderIDsForAssign"`
}

// LabelService manages labels within a case.
type LabelService interface {
	// List returns all labels in the case.
	List(ctx context.Context, caseID int64, opts ...RequestOption) ([]*Label, error)

	// Create creates a new label and returns it with its assigned id.
	Create(ctx context.Context, caseID int64, label *Label, opts ...RequestOption) (*Label, error)

	// Apply labels every object matching the filter. The work runs as a
	// server-side job; the returned handle has already been refreshed once.
	Apply(ctx context.Context, caseID, labelID int64, filter Filter, opts ...RequestOption) (*Job, error)

	// ObjectIDs returns the ids of all objects carrying the label.
	ObjectIDs(ctx context.Context, caseID, labelID int64, opts ...RequestOption) ([]int64, error)
}

type labelService struct {
	transport *api.Transport
	jobs      JobService
}

func newLabelService(transport *api.Transport, jobs JobService) *labelService {
	return &labelService{transport: transport, jobs: jobs}
}

func (s *labelService) List(ctx context.Context, caseID int64, opts ...RequestOption) ([]*Label, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var labels []*Label
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf(api.LabelListPath, caseID),
		Headers: reqCfg.headers,
	}, &labels)
	if err != nil {
		return nil, err
	}
	return labels, nil
}

func (s *labelService) Create(ctx context.Context, caseID int64, label *Label, opts ...RequestOption) (*Label, error) {
	if label == nil || label.Name == "" {
		return nil, usageError("label name is required")
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	created := *label
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodPost,
		Path:    fmt.Sprintf(api.LabelCreatePath, caseID),
		Body:    label,
		Headers: reqCfg.headers,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *labelService) Apply(ctx context.Context, caseID, labelID int64, filter Filter, opts ...RequestOption) (*Job, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	body := &labelAssignment{Filter: orEmpty(filter)}
	body.FolderAssignmentOptions.FolderIDsForAssign = []int64{labelID}

	var jobID int64
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodPost,
		Path:    fmt.Sprintf(api.LabelObjectsJobPath, caseID),
		Body:    body,
		Headers: reqCfg.headers,
	}, &jobID)
	if err != nil {
		return nil, err
	}

	return s.jobs.Get(ctx, caseID, jobID, opts...)
}

func (s *labelService) ObjectIDs(ctx context.Context, caseID, labelID int64, opts ...RequestOption) ([]int64, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var ids []int64
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf(api.LabelObjectsListPath, caseID, labelID),
		Headers: reqCfg.headers,
	}, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
