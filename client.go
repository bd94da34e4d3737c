package ftk

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
	"github.com/AccessDataOps/FTK-API-SDK/internal/auth"
)

// User is one service account known to the platform.
type User struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email,omitempty"`
}

// Group is one permission group known to the platform.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client is the entry point to the FTK Enterprise API. Construct one with
// NewClient and reach the API surface through the service fields. A Client
// is safe for concurrent use.
//
// Construction is offline; use StatusCheck to verify connectivity and
// credentials before doing real work.
type Client struct {
	transport *api.Transport

	// Attributes resolves metadata attribute definitions for filter building.
	Attributes AttributeService

	// Cases manages investigation cases.
	Cases CaseService

	// Evidence manages data sources within a case.
	Evidence EvidenceService

	// Objects browses and searches case objects.
	Objects ObjectService

	// Labels manages object labels within a case.
	Labels LabelService

	// Jobs tracks asynchronous server-side tasks.
	Jobs JobService

	// Agents runs analysis and acquisition jobs on remote endpoints.
	Agents AgentService

	// Collections lists and starts enterprise collections.
	Collections CollectionService
}

// NewClient creates a new FTK API client. A base URL and either an API key
// or basic-auth credentials are required.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	creds := &auth.Credentials{
		APIKey:   cfg.apiKey,
		Username: cfg.username,
		Password: cfg.password,
	}
	if !creds.Valid() {
		return nil, ErrNoCredentials
	}

	httpClient := cfg.httpClient
	if httpClient == nil && cfg.timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	transport, err := api.NewTransport(cfg.baseURL, creds, httpClient)
	if err != nil {
		return nil, fmt.Errorf("ftk: %w", err)
	}
	if cfg.userAgent != "" {
		transport.UserAgent = cfg.userAgent
	}
	if cfg.logger != nil {
		transport.Logger = cfg.logger
	}
	transport.AutoRequestID = cfg.autoRequestID

	jobs := newJobService(transport)
	labels := newLabelService(transport, jobs)
	objects := newObjectService(transport, labels, jobs)

	return &Client{
		transport:   transport,
		Attributes:  newAttributeService(transport),
		Cases:       newCaseService(transport, jobs),
		Evidence:    newEvidenceService(transport, objects, jobs),
		Objects:     objects,
		Labels:      labels,
		Jobs:        jobs,
		Agents:      newAgentService(transport, jobs),
		Collections: newCollectionService(transport, jobs),
	}, nil
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL.String()
}

// StatusCheck probes the service. A reachable, healthy service with valid
// credentials answers "Ok"; any other answer surfaces as a StatusError.
func (c *Client) StatusCheck(ctx context.Context, opts ...RequestOption) error {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var status string
	_, err := do(ctx, c.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    api.StatusCheckPath,
		Headers: reqCfg.headers,
	}, &status)
	if err != nil {
		return err
	}
	if status != "Ok" {
		return &StatusError{Status: status}
	}
	return nil
}

// SiteServerStatus returns the raw status report of the site server that
// brokers agent connections.
func (c *Client) SiteServerStatus(ctx context.Context, opts ...RequestOption) (map[string]any, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var status map[string]any
	_, err := do(ctx, c.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    api.SiteServerStatusPath,
		Headers: reqCfg.headers,
	}, &status)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// ServerSetting returns the value of one named server setting, for example
// "FTKDefaultPath".
func (c *Client) ServerSetting(ctx context.Context, key string, opts ...RequestOption) (string, error) {
	if key == "" {
		return "", usageError("setting key is required")
	}
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)
	return serverSetting(ctx, c.transport, key, reqCfg)
}

// Users returns all service accounts visible to the caller.
func (c *Client) Users(ctx context.Context, opts ...RequestOption) ([]*User, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var users []*User
	_, err := do(ctx, c.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    api.UserListPath,
		Headers: reqCfg.headers,
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Groups returns all permission groups visible to the caller.
func (c *Client) Groups(ctx context.Context, opts ...RequestOption) ([]*Group, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var groups []*Group
	_, err := do(ctx, c.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    api.GroupListPath,
		Headers: reqCfg.headers,
	}, &groups)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// do executes a request through the transport and maps failures onto the
// package's error types.
func do(ctx context.Context, transport *api.Transport, req *api.Request, result any) (*api.Response, error) {
	resp, err := transport.DoJSON(ctx, req, result)
	if err != nil {
		if errors.Is(err, api.ErrPermissionDenied) {
			return nil, &AuthenticationError{APIError: APIError{
				StatusCode: http.StatusForbidden,
				Message:    "the configured credentials lack permission for this operation",
			}}
		}
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return resp, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}
	return resp, nil
}
