package ftk

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

// Case is a top-level investigation container.
type Case struct {
	ID                 int64  `json:"id,omitempty"`
	Name               string `json:"name"`
	FTKCaseFolderPath  string `json:"ftkcasefolderpath,omitempty"`
	ResponsiveFilePath string `json:"responsivefilepath,omitempty"`
}

// CreateCaseRequest contains data for creating a new case. Unset folder
// paths default to locations under the server's FTKDefaultPath setting.
type CreateCaseRequest struct {
	Name               string `json:"name"`
	FTKCaseFolderPath  string `json:"ftkcasefolderpath,omitempty"`
	ResponsiveFilePath string `json:"responsivefilepath,omitempty"`
}

// PortableCaseOptions configures a portable-case export.
type PortableCaseOptions struct {
	// OutputPath is the directory, visible to the service, to export into.
	OutputPath string

	// FolderName names the exported folder. Defaults to "Portable Case <id>".
	FolderName string

	// IncludeFTKPlus also exports FTK+ alongside the case folder.
	IncludeFTKPlus bool

	// Filter narrows the exported object set.
	Filter Filter
}

type portableCaseRequest struct {
	UIFilter   Filter `json:"uifilter"`
	CopyQView  bool   `json:"copyqview"`
	OutputPath string `json:"outputpath"`
	FolderName string `json:"foldername"`
}

// CaseService manages cases within the platform.
type CaseService interface {
	// List returns all cases visible to the caller.
	List(ctx context.Context, opts ...RequestOption) ([]*Case, error)

	// Create creates a new case and returns it with its assigned id.
	Create(ctx context.Context, req *CreateCaseRequest, opts ...RequestOption) (*Case, error)

	// ExportPortable exports a portable version of the case as a server-side
	// job, returning the job handle.
	ExportPortable(ctx context.Context, caseID int64, portable *PortableCaseOptions, opts ...RequestOption) (*Job, error)
}

type caseService struct {
	transport *api.Transport
	jobs      JobService
}

func newCaseService(transport *api.Transport, jobs JobService) *caseService {
	return &caseService{transport: transport, jobs: jobs}
}

func (s *caseService) List(ctx context.Context, opts ...RequestOption) ([]*Case, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var cases []*Case
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    api.CaseListPath,
		Headers: reqCfg.headers,
	}, &cases)
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *caseService) Create(ctx context.Context, req *CreateCaseRequest, opts ...RequestOption) (*Case, error) {
	if req == nil || req.Name == "" {
		return nil, usageError("case name is required")
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	body := *req
	if body.FTKCaseFolderPath == "" || body.ResponsiveFilePath == "" {
		defaultDir, err := serverSetting(ctx, s.transport, "FTKDefaultPath", reqCfg)
		if err != nil {
			return nil, err
		}
		if body.FTKCaseFolderPath == "" {
			body.FTKCaseFolderPath = joinServerPath(defaultDir, req.Name)
		}
		if body.ResponsiveFilePath == "" {
			body.ResponsiveFilePath = joinServerPath(defaultDir, req.Name, "Jobs")
		}
	}

	var caseID int64
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodPost,
		Path:    api.CaseCreatePath,
		Body:    &body,
		Headers: reqCfg.headers,
	}, &caseID)
	if err != nil {
		return nil, err
	}

	return &Case{
		ID:                 caseID,
		Name:               body.Name,
		FTKCaseFolderPath:  body.FTKCaseFolderPath,
		ResponsiveFilePath: body.ResponsiveFilePath,
	}, nil
}

func (s *caseService) ExportPortable(ctx context.Context, caseID int64, portable *PortableCaseOptions, opts ...RequestOption) (*Job, error) {
	if portable == nil || portable.OutputPath == "" {
		return nil, usageError("portable case output path is required")
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	folderName := portable.FolderName
	if folderName == "" {
		folderName = fmt.Sprintf("Portable Case %d", caseID)
	}

	var jobID int64
	_, err := do(ctx, s.transport, &api.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf(api.PortableCaseCreatePath, caseID),
		Body: &portableCaseRequest{
			UIFilter:   orEmpty(portable.Filter),
			CopyQView:  portable.IncludeFTKPlus,
			OutputPath: portable.OutputPath,
			FolderName: folderName,
		},
		Headers: reqCfg.headers,
	}, &jobID)
	if err != nil {
		return nil, err
	}

	return s.jobs.Get(ctx, caseID, jobID, opts...)
}

// serverSetting fetches one named server setting.
func serverSetting(ctx context.Context, transport *api.Transport, key string, reqCfg *requestConfig) (string, error) {
	var value string
	_, err := do(ctx, transport, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf(api.ServerSettingPath, key),
		Headers: reqCfg.headers,
	}, &value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// joinServerPath joins path elements for the service's filesystem. Case
// folders live on the Windows server, not the client host, so the separator
// is fixed rather than platform-dependent.
func joinServerPath(elems ...string) string {
	joined := strings.TrimRight(elems[0], `\`)
	for _, elem := range elems[1:] {
		joined += `\` + strings.Trim(elem, `\`)
	}
	return joined
}
