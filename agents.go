package ftk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

// ImageType enumerates the evidence image formats an agent acquisition can
// produce.
type ImageType int

const (
	ImageRAW ImageType = 0
	ImageS01 ImageType = 1
	ImageE01 ImageType = 2
	ImageAFF ImageType = 3
)

// VolatileOptions configures a volatile-memory analysis run. The zero value
// disables everything; start from DefaultVolatileOptions for the service's
// usual coverage.
type VolatileOptions struct {
	IncludeProcessTree  bool               `json:"includeProcessTree"`
	ProcessTreeOptions  ProcessTreeOptions `json:"processTreeOptions"`
	IncludeServices     bool               `json:"includeServices"`
	IncludeJamServices  bool               `json:"includeJamServices"`
	IncludeDrivers      bool               `json:"includeDrivers"`
	IncludeJamDrivers   bool               `json:"includeJamDrivers"`
	IncludeUsers        bool               `json:"includeUsers"`
	IncludeNICs         bool               `json:"includeNICs"`
	IncludeSMBSessions  bool               `json:"includeSMBSessions"`
	IncludeARP          bool               `json:"includeArp"`
	IncludeRouting      bool               `json:"includeRouting"`
	IncludeDNSCache     bool               `json:"includeDNSCache"`
	IncludePrefetch     bool               `json:"includePrefetch"`
	IncludeVolume       bool               `json:"includeVolume"`
	IncludeUSB          bool               `json:"includeUsb"`
	IncludeLiveRegistry bool               `json:"includeLiveRegistry"`
	IncludeRegistryKeys bool               `json:"includeRegistryKeys"`
	IncludeTasks        bool               `json:"includeTasks"`
	IncludeJamTasks     bool               `json:"includeJamTasks"`
	IncludeCertificates bool               `json:"includeCertificates"`
}

// ProcessTreeOptions tunes the process-tree portion of a volatile analysis.
type ProcessTreeOptions struct {
	DetectHiddenProcesses   bool       `json:"detectHiddenProcesses"`
	IncludeDLLs             bool       `json:"includeDlls"`
	DLLOptions              DLLOptions `json:"dllOptions"`
	IncludeSockets          bool       `json:"includeSockets"`
	IncludeHandles          bool       `json:"includeHandles"`
	IncludeJamScore         bool       `json:"includeJamScore"`
	IncludeStaticAnalysis   bool       `json:"includeStaticAnalysis"`
	MergeWithMemoryAnalysis bool       `json:"mergeWithMemoryAnalysis"`
}

// DLLOptions tunes DLL inspection within the process tree.
type DLLOptions struct {
	DetectInjectedDLLs bool `json:"detectInjectedDlls"`
}

// DefaultVolatileOptions returns the analysis coverage the platform applies
// by default.
func DefaultVolatileOptions() *VolatileOptions {
	return &VolatileOptions{
		IncludeProcessTree: true,
		ProcessTreeOptions: ProcessTreeOptions{
			IncludeDLLs:    true,
			IncludeSockets: true,
			IncludeHandles: true,
		},
		IncludeServices:     true,
		IncludeJamServices:  true,
		IncludeDrivers:      true,
		IncludeJamDrivers:   true,
		IncludeUsers:        true,
		IncludeNICs:         true,
		IncludeSMBSessions:  true,
		IncludeARP:          true,
		IncludeRouting:      true,
		IncludeDNSCache:     true,
		IncludePrefetch:     true,
		IncludeVolume:       true,
		IncludeUSB:          true,
		IncludeTasks:        true,
		IncludeJamTasks:     true,
		IncludeCertificates: true,
	}
}

// DiskImageOptions configures a disk acquisition.
type DiskImageOptions struct {
	ImageType ImageType `json:"imageType"`
	ImagePath string    `json:"imagePath,omitempty"`
}

// RemediationTask names what a remediation run should remove or kill on the
// endpoint.
type RemediationTask struct {
	FilePath    string `json:"filepath,omitempty"`
	ProcessID   int    `json:"processid,omitempty"`
	ServiceName string `json:"servicename,omitempty"`
	RegistryKey string `json:"registrykey,omitempty"`
}

// CollectOptions configures an agent collection run.
type CollectOptions struct {
	// Filter is the service-defined collection filter document, passed
	// through verbatim.
	Filter map[string]any
}

// targetList addresses the endpoints a job runs against.
type targetList struct {
	Targets []string `json:"targets"`
}

type agentCollectionRequest struct {
	Filter              map[string]any `json:"filter"`
	BaseName            string         `json:"baseName"`
	CalculateSHA1Hashes bool           `json:"calculateSha1Hashes"`
	CalculateMD5Hashes  bool           `json:"calculateMD5Hashes"`
	VerifyAfterCreation bool           `json:"verifyAfterCreation"`
}

// AgentService runs collection and analysis jobs against remote endpoints
// through their installed agents. Targets are addresses, NetBIOS names or
// FQDNs; every operation returns the created job handle, already refreshed
// once.
type AgentService interface {
	// AnalyzeVolatile analyzes volatile memory on the endpoints and stores
	// the results as case objects. Nil opts means DefaultVolatileOptions.
	AnalyzeVolatile(ctx context.Context, caseID int64, targets []string, volatile *VolatileOptions, opts ...RequestOption) (*Job, error)

	// AcquireDisk images the endpoints' disks into the case folder.
	AcquireDisk(ctx context.Context, caseID int64, targets []string, image *DiskImageOptions, opts ...RequestOption) (*Job, error)

	// AcquireMemory captures the endpoints' memory into the case folder.
	AcquireMemory(ctx context.Context, caseID int64, targets []string, opts ...RequestOption) (*Job, error)

	// SoftwareInventory inventories installed software into case objects.
	SoftwareInventory(ctx context.Context, caseID int64, targets []string, opts ...RequestOption) (*Job, error)

	// Remediate runs a remediation task on the endpoints.
	Remediate(ctx context.Context, caseID int64, targets []string, task *RemediationTask, opts ...RequestOption) (*Job, error)

	// Collect gathers files matching the collection filter from the
	// endpoints into a named evidence container.
	Collect(ctx context.Context, caseID int64, targets []string, name string, collect *CollectOptions, opts ...RequestOption) (*Job, error)
}

type agentService struct {
	transport *api.Transport
	jobs      JobService
}

func newAgentService(transport *api.Transport, jobs JobService) *agentService {
	return &agentService{transport: transport, jobs: jobs}
}

func (s *agentService) submit(ctx context.Context, caseID int64, path string, body any, opts ...RequestOption) (*Job, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var jobID int64
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodPost,
		Path:    path,
		Body:    body,
		Headers: reqCfg.headers,
	}, &jobID)
	if err != nil {
		return nil, err
	}
	return s.jobs.Get(ctx, caseID, jobID, opts...)
}

func validateTargets(targets []string) error {
	if len(targets) == 0 {
		return usageError("at least one target is required")
	}
	return nil
}

func (s *agentService) AnalyzeVolatile(ctx context.Context, caseID int64, targets []string, volatile *VolatileOptions, opts ...RequestOption) (*Job, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	if volatile == nil {
		volatile = DefaultVolatileOptions()
	}
	body := map[string]any{
		"volatile": volatile,
		"ips":      targetList{Targets: targets},
	}
	return s.submit(ctx, caseID, fmt.Sprintf(api.AgentVolatileAnalysis, caseID), body, opts...)
}

func (s *agentService) AcquireDisk(ctx context.Context, caseID int64, targets []string, image *DiskImageOptions, opts ...RequestOption) (*Job, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	if image == nil {
		image = &DiskImageOptions{}
	}
	body := map[string]any{
		"driveImage": image,
		"ips":        targetList{Targets: targets},
	}
	return s.submit(ctx, caseID, fmt.Sprintf(api.AgentDiskAcquisition, caseID), body, opts...)
}

func (s *agentService) AcquireMemory(ctx context.Context, caseID int64, targets []string, opts ...RequestOption) (*Job, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	body := map[string]any{
		"memoryAcquistion": struct{}{},
		"ips":              targetList{Targets: targets},
	}
	return s.submit(ctx, caseID, fmt.Sprintf(api.AgentMemoryAcquisition, caseID), body, opts...)
}

func (s *agentService) SoftwareInventory(ctx context.Context, caseID int64, targets []string, opts ...RequestOption) (*Job, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	body := map[string]any{
		"softwareInvJob": struct{}{},
		"ips":            targetList{Targets: targets},
	}
	return s.submit(ctx, caseID, fmt.Sprintf(api.AgentSoftwareInventory, caseID), body, opts...)
}

func (s *agentService) Remediate(ctx context.Context, caseID int64, targets []string, task *RemediationTask, opts ...RequestOption) (*Job, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	if task == nil {
		task = &RemediationTask{}
	}
	body := map[string]any{
		"agentRemediation": task,
		"ips":              targetList{Targets: targets},
	}
	return s.submit(ctx, caseID, fmt.Sprintf(api.AgentRemediationPath, caseID), body, opts...)
}

func (s *agentService) Collect(ctx context.Context, caseID int64, targets []string, name string, collect *CollectOptions, opts ...RequestOption) (*Job, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, usageError("collection base name is required")
	}
	if collect == nil {
		collect = &CollectOptions{}
	}
	body := map[string]any{
		"agentCollection": agentCollectionRequest{
			Filter:              collect.Filter,
			BaseName:            name,
			CalculateSHA1Hashes: true,
			CalculateMD5Hashes:  true,
			VerifyAfterCreation: true,
		},
		"ips": targetList{Targets: targets},
	}
	return s.submit(ctx, caseID, fmt.Sprintf(api.AgentCollectionPath, caseID), body, opts...)
}
