package api

// Endpoint paths for the FTK Enterprise API. Paths with parameters are
// fmt.Sprintf format strings; case id, page number/size, job id and label id
// are interpolated positionally. The exact strings are a contract owned by
// the FTK service.
const (
	basePath = "/api/v2/enterpriseapi"

	// Status
	StatusCheckPath      = basePath + "/statuscheck"
	SiteServerStatusPath = basePath + "/agent/getsiteserverstatus"

	// Case management
	CaseCreatePath         = basePath + "/core/createcase"
	CaseListPath           = basePath + "/core/getcaselist"
	PortableCaseCreatePath = basePath + "/core/%d/createportablecase"

	// Evidence management
	EvidenceListPath      = basePath + "/core/%d/getevidencelist"
	ProcessedEvidenceList = basePath + "/core/%d/getprocessedevidencelist"
	EvidenceProcessPath   = basePath + "/core/%d/processdata"

	// Object browsing
	ObjectPageListPath = basePath + "/core/%d/getobjectlist/%d/%d"

	// Label management
	LabelCreatePath      = basePath + "/core/%d/createlabel"
	LabelListPath        = basePath + "/core/%d/getlabellist"
	LabelObjectsJobPath  = basePath + "/jobs/%d/labelobjects"
	LabelObjectsListPath = basePath + "/core/cases/%d/label/%d/evidenceobjects"

	// Search and export
	SearchReportPath  = basePath + "/jobs/%d/createsearchcountreport"
	ExportNativesPath = basePath + "/jobs/%d/dumpnativeobjects"

	// Agent management. The acquisition path spellings match the service.
	AgentCollectionPath    = basePath + "/agent/%d/agentcollectionjob"
	AgentDiskAcquisition   = basePath + "/agent/%d/diskacquistion"
	AgentMemoryAcquisition = basePath + "/agent/%d/memoryacquistion"
	AgentRemediationPath   = basePath + "/agent/%d/remediate"
	AgentSoftwareInventory = basePath + "/agent/%d/softwareinventory"
	AgentVolatileAnalysis  = basePath + "/agent/%d/volatile"

	// Jobs
	JobStatusPath = basePath + "/core/%d/getjobstatus/%d"

	// Enterprise collections
	CollectionTaskListPath = basePath + "/enterprisecollection/getjoblist"
	CollectionExecutePath  = basePath + "/enterprisecollection/execute"

	// Utility
	AttributeListPath = basePath + "/core/getallattributes"
	ServerSettingPath = basePath + "/core/getserversetting/%s"
	GroupListPath     = basePath + "/core/getgrouplist"
	UserListPath      = basePath + "/core/getuserlist"
)
