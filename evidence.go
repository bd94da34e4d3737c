package ftk

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

// EvidenceType enumerates the kinds of evidence the platform can ingest.
type EvidenceType int

const (
	EvidenceFile      EvidenceType = 0
	EvidenceDirectory EvidenceType = 1
	EvidenceImageFile EvidenceType = 2
)

// EvidenceItem is one ingested data source within a case. Browsing through
// an item scopes results to the item's descendant objects.
type EvidenceItem struct {
	EvidenceID   int64        `json:"evidenceId"`
	FilePath     string       `json:"filePath"`
	EvidenceType EvidenceType `json:"evidenceType"`

	// CaseID is stamped client-side when the item is listed.
	CaseID int64 `json:"-"`
}

// ProcessEvidenceRequest describes a data source to ingest.
type ProcessEvidenceRequest struct {
	EvidencePath string
	EvidenceType EvidenceType
}

type processEvidenceBody struct {
	EvidenceToCreate evidenceToCreate `json:"evidencetocreate"`
}

type evidenceToCreate struct {
	EvidencePath string       `json:"evidencepath"`
	EvidenceType EvidenceType `json:"evidencetype"`
}

// EvidenceService manages evidence items within a case and exposes
// evidence-scoped object browsing.
type EvidenceService interface {
	// List returns all evidence items in the case.
	List(ctx context.Context, caseID int64, opts ...RequestOption) ([]*EvidenceItem, error)

	// ListProcessed returns only the evidence items that finished processing.
	ListProcessed(ctx context.Context, caseID int64, opts ...RequestOption) ([]*EvidenceItem, error)

	// Process ingests a new data source. Processing runs as one or more
	// server-side jobs; each returned handle has been refreshed once.
	Process(ctx context.Context, caseID int64, req *ProcessEvidenceRequest, opts ...RequestOption) ([]*Job, error)

	// Browse returns a single page of the item's descendant objects.
	Browse(ctx context.Context, item *EvidenceItem, pageNumber, pageSize int, opts *BrowseOptions) (*ObjectPage, error)

	// Iterate iterates the item's descendant objects.
	Iterate(ctx context.Context, item *EvidenceItem, opts *IterateOptions) iter.Seq2[*Object, error]

	// SearchKeywords runs a keyword search scoped to the item.
	SearchKeywords(ctx context.Context, item *EvidenceItem, keywords []string, opts *SearchOptions) (iter.Seq2[*Object, error], error)

	// ExportNatives exports the item's matching descendant objects.
	ExportNatives(ctx context.Context, item *EvidenceItem, path string, opts *ExportOptions) (*Job, error)
}

type evidenceService struct {
	transport *api.Transport
	objects   ObjectService
	jobs      JobService
}

func newEvidenceService(transport *api.Transport, objects ObjectService, jobs JobService) *evidenceService {
	return &evidenceService{transport: transport, objects: objects, jobs: jobs}
}

func (s *evidenceService) List(ctx context.Context, caseID int64, opts ...RequestOption) ([]*EvidenceItem, error) {
	return s.list(ctx, caseID, fmt.Sprintf(api.EvidenceListPath, caseID), opts...)
}

func (s *evidenceService) ListProcessed(ctx context.Context, caseID int64, opts ...RequestOption) ([]*EvidenceItem, error) {
	return s.list(ctx, caseID, fmt.Sprintf(api.ProcessedEvidenceList, caseID), opts...)
}

func (s *evidenceService) list(ctx context.Context, caseID int64, path string, opts ...RequestOption) ([]*EvidenceItem, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var items []*EvidenceItem
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    path,
		Headers: reqCfg.headers,
	}, &items)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.CaseID = caseID
	}
	return items, nil
}

func (s *evidenceService) Process(ctx context.Context, caseID int64, req *ProcessEvidenceRequest, opts ...RequestOption) ([]*Job, error) {
	if req == nil || req.EvidencePath == "" {
		return nil, usageError("evidence path is required")
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	body := &processEvidenceBody{
		EvidenceToCreate: evidenceToCreate{
			EvidencePath: req.EvidencePath,
			EvidenceType: req.EvidenceType,
		},
	}

	var jobIDs []int64
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodPost,
		Path:    fmt.Sprintf(api.EvidenceProcessPath, caseID),
		Body:    body,
		Headers: reqCfg.headers,
	}, &jobIDs)
	if err != nil {
		return nil, err
	}

	jobs := make([]*Job, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		job, err := s.jobs.Get(ctx, caseID, jobID, opts...)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *evidenceService) Browse(ctx context.Context, item *EvidenceItem, pageNumber, pageSize int, opts *BrowseOptions) (*ObjectPage, error) {
	scoped := scopedBrowseOptions(opts, item)
	return s.objects.BrowsePage(ctx, item.CaseID, pageNumber, pageSize, scoped)
}

func (s *evidenceService) Iterate(ctx context.Context, item *EvidenceItem, opts *IterateOptions) iter.Seq2[*Object, error] {
	scoped := IterateOptions{}
	if opts != nil {
		scoped = *opts
	}
	scoped.EvidenceID = item.EvidenceID
	return s.objects.Iterate(ctx, item.CaseID, &scoped)
}

func (s *evidenceService) SearchKeywords(ctx context.Context, item *EvidenceItem, keywords []string, opts *SearchOptions) (iter.Seq2[*Object, error], error) {
	scoped := SearchOptions{}
	if opts != nil {
		scoped = *opts
	}
	scoped.EvidenceID = item.EvidenceID
	return s.objects.SearchKeywords(ctx, item.CaseID, keywords, &scoped)
}

func (s *evidenceService) ExportNatives(ctx context.Context, item *EvidenceItem, path string, opts *ExportOptions) (*Job, error) {
	scoped := ExportOptions{}
	if opts != nil {
		scoped = *opts
	}
	scoped.EvidenceID = item.EvidenceID
	return s.objects.ExportNatives(ctx, item.CaseID, path, &scoped)
}

func scopedBrowseOptions(opts *BrowseOptions, item *EvidenceItem) *BrowseOptions {
	scoped := BrowseOptions{}
	if opts != nil {
		scoped = *opts
	}
	scoped.EvidenceID = item.EvidenceID
	return &scoped
}
