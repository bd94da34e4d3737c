package ftk

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

const defaultPageSize = 100

// evidenceIDAttribute is the service column holding an object's owning
// evidence item; labelIDAttribute holds the labels flagged by a search.
const (
	evidenceIDAttribute = "EvidenceID"
	labelIDAttribute    = "LabelID"
)

// BrowseOptions configures a single-page browse.
type BrowseOptions struct {
	// Filter narrows the object set before paging. Nil matches everything.
	Filter Filter

	// Attributes selects the metadata columns returned for each object.
	// Empty means the service's default columns.
	Attributes []*Attribute

	// EvidenceID scopes results to one evidence item's descendants by
	// conjoining an EvidenceID equality filter. Zero means unscoped.
	EvidenceID int64
}

// IterateOptions configures a full iteration over an object set.
type IterateOptions struct {
	// PageSize is the fetch granularity. Defaults to 100.
	PageSize int

	Filter     Filter
	Attributes []*Attribute
	EvidenceID int64
}

// SearchOptions configures a keyword search.
type SearchOptions struct {
	// Labels names the label applied per keyword. When set it must have one
	// entry per keyword; when empty each keyword gets an "API-Search "
	// prefixed label.
	Labels []string

	// Parameters passes service-defined search parameters through verbatim.
	Parameters map[string]any

	Filter     Filter
	Attributes []*Attribute
	EvidenceID int64

	// PollInterval and MaxPolls bound the wait for search completion; see
	// AwaitOptions.
	PollInterval time.Duration
	MaxPolls     int
}

// ExportOptions configures a native-object export job.
type ExportOptions struct {
	Filter     Filter
	EvidenceID int64

	CheckProcessedObjectFlag bool
	InsertData               bool
	InsertExternalDataOnly   bool
	RunParser                bool
}

// exportNativesRequest is the export submission body.
type exportNativesRequest struct {
	CheckProcessedObjectFlag bool   `json:"checkprocessedobjectflag"`
	InsertData               bool   `json:"insertdata"`
	InsertExternalDataOnly   bool   `json:"insertexternaldataonly"`
	RunParser                bool   `json:"runparser"`
	InputFolder              string `json:"inputfolder"`
	UIFilter                 Filter `json:"uiFilter"`
}

// searchReportRequest is the keyword-search submission body.
type searchReportRequest struct {
	Name               string         `json:"name"`
	AssignLabel        bool           `json:"assignlabel"`
	FullTextSearchOnly bool           `json:"fulltextsearchonly"`
	Criteria           searchCriteria `json:"criteria"`
	SearchTerms        []searchTerm   `json:"searchterms"`
}

type searchCriteria struct {
	Terms            []string       `json:"terms"`
	SearchParameters map[string]any `json:"searchParameters"`
}

type searchTerm struct {
	Label string `json:"label"`
	Term  string `json:"term"`
}

// ObjectService browses and searches the objects within a case.
type ObjectService interface {
	// BrowsePage returns a single page of objects. Pages are 1-based. Use
	// this for explicit pagination control; Iterate composes it.
	BrowsePage(ctx context.Context, caseID int64, pageNumber, pageSize int, opts *BrowseOptions) (*ObjectPage, error)

	// Iterate returns an iterator over every object matching the options,
	// fetching pages lazily as you iterate. The sequence is forward-only
	// and not restartable; iterate again for a fresh pass.
	Iterate(ctx context.Context, caseID int64, opts *IterateOptions) iter.Seq2[*Object, error]

	// SearchKeywords submits a keyword search job, waits for it to finish,
	// and returns an iterator over the flagged objects. A search ending
	// Failed or CompletedWithErrors yields an empty iterator, not an error.
	SearchKeywords(ctx context.Context, caseID int64, keywords []string, opts *SearchOptions) (iter.Seq2[*Object, error], error)

	// ExportNatives submits an export of the matching objects to a folder
	// visible to the service, returning the job handle.
	ExportNatives(ctx context.Context, caseID int64, path string, opts *ExportOptions) (*Job, error)
}

type objectService struct {
	transport *api.Transport
	labels    LabelService
	jobs      JobService
}

func newObjectService(transport *api.Transport, labels LabelService, jobs JobService) *objectService {
	return &objectService{transport: transport, labels: labels, jobs: jobs}
}

// scopeToEvidence conjoins the evidence-scoping conjunct onto a caller
// filter. The attribute is numeric, so the conjunct is built directly as a
// number comparison without consulting the attribute catalog.
func scopeToEvidence(f Filter, evidenceID int64) Filter {
	if evidenceID == 0 {
		return f
	}
	scope := NewNumberFilter(evidenceIDAttribute, NumberEqualTo, evidenceID)
	if f == nil {
		return scope
	}
	return And(f, scope)
}

func (s *objectService) BrowsePage(ctx context.Context, caseID int64, pageNumber, pageSize int, opts *BrowseOptions) (*ObjectPage, error) {
	if opts == nil {
		opts = &BrowseOptions{}
	}
	if pageNumber < 1 {
		return nil, usageError("page number must be >= 1, got %d", pageNumber)
	}
	if pageSize <= 0 {
		return nil, usageError("page size must be positive, got %d", pageSize)
	}

	filter := scopeToEvidence(opts.Filter, opts.EvidenceID)

	var page ObjectPage
	_, err := do(ctx, s.transport, &api.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf(api.ObjectPageListPath, caseID, pageNumber, pageSize),
		Body:   newPageRequest(filter, opts.Attributes),
	}, &page)
	if err != nil {
		return nil, err
	}

	page.PageNumber = pageNumber
	page.PageSize = pageSize
	return &page, nil
}

func (s *objectService) Iterate(ctx context.Context, caseID int64, opts *IterateOptions) iter.Seq2[*Object, error] {
	return func(yield func(*Object, error) bool) {
		o := opts
		if o == nil {
			o = &IterateOptions{}
		}
		pageSize := o.PageSize
		if pageSize == 0 {
			pageSize = defaultPageSize
		}

		browse := &BrowseOptions{
			Filter:     o.Filter,
			Attributes: o.Attributes,
			EvidenceID: o.EvidenceID,
		}

		page, err := s.BrowsePage(ctx, caseID, 1, pageSize, browse)
		if err != nil {
			yield(nil, err)
			return
		}
		if !s.yieldPageItems(ctx, page, yield) {
			return
		}

		// totalCount is read from the first page only; later pages reuse it.
		totalPages := page.TotalPages()
		for number := 2; number <= totalPages; number++ {
			page, err = s.BrowsePage(ctx, caseID, number, pageSize, browse)
			if err != nil {
				yield(nil, err)
				return
			}
			if !s.yieldPageItems(ctx, page, yield) {
				return
			}
		}
	}
}

// yieldPageItems yields each object from the page to the iterator. Returns
// false if iteration should stop (context cancelled or yield returned false).
func (s *objectService) yieldPageItems(ctx context.Context, page *ObjectPage, yield func(*Object, error) bool) bool {
	for _, obj := range page.Entities {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return false
		}
		if !yield(obj, nil) {
			return false
		}
	}
	return true
}

func (s *objectService) SearchKeywords(ctx context.Context, caseID int64, keywords []string, opts *SearchOptions) (iter.Seq2[*Object, error], error) {
	if len(keywords) == 0 {
		return nil, usageError("at least one keyword is required")
	}
	o := opts
	if o == nil {
		o = &SearchOptions{}
	}

	labelNames := o.Labels
	if len(labelNames) > 0 {
		if len(labelNames) != len(keywords) {
			return nil, usageError("keywords and labels must have the same length: %d keywords, %d labels",
				len(keywords), len(labelNames))
		}
	} else {
		labelNames = make([]string, len(keywords))
		for i, keyword := range keywords {
			labelNames[i] = "API-Search " + keyword
		}
	}

	labelIDs, err := s.resolveLabels(ctx, caseID, labelNames)
	if err != nil {
		return nil, err
	}

	terms := make([]searchTerm, len(keywords))
	for i := range keywords {
		terms[i] = searchTerm{Label: labelNames[i], Term: keywords[i]}
	}

	body := &searchReportRequest{
		Name:               "API-Search " + strings.Join(keywords, "-"),
		AssignLabel:        true,
		FullTextSearchOnly: true,
		Criteria: searchCriteria{
			Terms:            keywords,
			SearchParameters: o.Parameters,
		},
		SearchTerms: terms,
	}

	var jobID int64
	_, err = do(ctx, s.transport, &api.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf(api.SearchReportPath, caseID),
		Body:   body,
	}, &jobID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.Get(ctx, caseID, jobID)
	if err != nil {
		return nil, err
	}
	err = s.jobs.Await(ctx, job, &AwaitOptions{Interval: o.PollInterval, MaxPolls: o.MaxPolls})
	if err != nil {
		return nil, err
	}

	// A failed or partially-failed search yields no results rather than an
	// error; callers needing the distinction can run the job primitives
	// themselves.
	if job.State == JobFailed || job.State == JobCompletedWithErrors {
		return func(yield func(*Object, error) bool) {}, nil
	}

	filter := Filter(NewMembershipFilter(labelIDAttribute, NumberIncludes, labelIDs))
	if scoped := scopeToEvidence(o.Filter, o.EvidenceID); scoped != nil {
		filter = And(filter, scoped)
	}

	return s.Iterate(ctx, caseID, &IterateOptions{
		Filter:     filter,
		Attributes: o.Attributes,
	}), nil
}

// resolveLabels maps label names to ids, creating any that do not exist yet.
func (s *objectService) resolveLabels(ctx context.Context, caseID int64, names []string) ([]int64, error) {
	existing, err := s.labels.List(ctx, caseID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*Label, len(existing))
	for _, label := range existing {
		byName[label.Name] = label
	}

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		label, ok := byName[name]
		if !ok {
			label, err = s.labels.Create(ctx, caseID, &Label{Name: name})
			if err != nil {
				return nil, err
			}
		}
		ids = append(ids, label.ID)
	}
	return ids, nil
}

func (s *objectService) ExportNatives(ctx context.Context, caseID int64, path string, opts *ExportOptions) (*Job, error) {
	if path == "" {
		return nil, usageError("export path is required")
	}
	o := opts
	if o == nil {
		o = &ExportOptions{}
	}

	body := &exportNativesRequest{
		CheckProcessedObjectFlag: o.CheckProcessedObjectFlag,
		InsertData:               o.InsertData,
		InsertExternalDataOnly:   o.InsertExternalDataOnly,
		RunParser:                o.RunParser,
		InputFolder:              path,
		UIFilter:                 orEmpty(scopeToEvidence(o.Filter, o.EvidenceID)),
	}

	var jobID int64
	_, err := do(ctx, s.transport, &api.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf(api.ExportNativesPath, caseID),
		Body:   body,
	}, &jobID)
	if err != nil {
		return nil, err
	}

	return s.jobs.Get(ctx, caseID, jobID)
}
