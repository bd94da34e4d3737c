package ftk

import (
	"context"
	"net/http"
	"sync"

	"github.com/AccessDataOps/FTK-API-SDK/internal/api"
)

// AttributeType tags the data type of a service attribute. The numeric
// values are the service's own type codes.
type AttributeType int

const (
	AttributeInt32  AttributeType = 7
	AttributeInt64  AttributeType = 9
	AttributeString AttributeType = 11
)

func (t AttributeType) String() string {
	switch t {
	case AttributeInt32:
		return "int32"
	case AttributeInt64:
		return "int64"
	case AttributeString:
		return "string"
	default:
		return "unknown"
	}
}

// Numeric reports whether the type supports ordering and membership
// operators.
func (t AttributeType) Numeric() bool {
	return t == AttributeInt32 || t == AttributeInt64
}

// Attribute identifies a service column usable for filtering and display.
// Its comparison methods build filters, dispatching on the data type and
// rejecting operators the type does not support.
type Attribute struct {
	AttributeUniqueName string        `json:"attributeUniqueName"`
	ColumnID            int64         `json:"columnID"`
	DataType            AttributeType `json:"dataType"`
	DisplayName         string        `json:"displayName,omitempty"`
}

// Name returns the attribute's unique name.
func (a *Attribute) Name() string { return a.AttributeUniqueName }

// EqualTo builds an equality filter, dispatching on the attribute type.
func (a *Attribute) EqualTo(value any) (Filter, error) {
	return a.compare("EqualTo", StringEqualTo, NumberEqualTo, value)
}

// NotEqualTo builds an inequality filter, dispatching on the attribute type.
func (a *Attribute) NotEqualTo(value any) (Filter, error) {
	return a.compare("NotEqualTo", StringNotEqualTo, NumberNotEqualTo, value)
}

// GreaterThan builds an ordering filter. Ordering operators are only valid
// on numeric attributes.
func (a *Attribute) GreaterThan(value int64) (Filter, error) {
	return a.order("GreaterThan", NumberGreaterThan, value)
}

// GreaterThanOrEqualTo builds an ordering filter on a numeric attribute.
func (a *Attribute) GreaterThanOrEqualTo(value int64) (Filter, error) {
	return a.order("GreaterThanOrEqualTo", NumberGreaterThanEqualTo, value)
}

// LessThan builds an ordering filter on a numeric attribute.
func (a *Attribute) LessThan(value int64) (Filter, error) {
	return a.order("LessThan", NumberLessThan, value)
}

// LessThanOrEqualTo builds an ordering filter on a numeric attribute.
func (a *Attribute) LessThanOrEqualTo(value int64) (Filter, error) {
	return a.order("LessThanOrEqualTo", NumberLessThanEqualTo, value)
}

// Contains builds a substring filter. Substring operators are only valid on
// string attributes.
func (a *Attribute) Contains(value string) (Filter, error) {
	return a.substring("Contains", StringContains, value)
}

// StartsWith builds a prefix filter on a string attribute.
func (a *Attribute) StartsWith(value string) (Filter, error) {
	return a.substring("StartsWith", StringStartsWith, value)
}

// EndsWith builds a suffix filter on a string attribute.
func (a *Attribute) EndsWith(value string) (Filter, error) {
	return a.substring("EndsWith", StringEndsWith, value)
}

// Within builds a set-membership filter matching values in the list.
// Membership operators are only valid on numeric attributes.
func (a *Attribute) Within(values []int64) (Filter, error) {
	return a.membership("Within", NumberIncludes, values)
}

// Excluding builds a set-membership filter matching values not in the list.
func (a *Attribute) Excluding(values []int64) (Filter, error) {
	return a.membership("Excluding", NumberExcludes, values)
}

func (a *Attribute) typeError(operator string) *FilterTypeError {
	return &FilterTypeError{
		Attribute: a.AttributeUniqueName,
		Operator:  operator,
		DataType:  a.DataType,
	}
}

func (a *Attribute) compare(name string, sop StringOperator, nop NumberOperator, value any) (Filter, error) {
	if a.DataType.Numeric() {
		n, ok := toInt64(value)
		if !ok {
			return nil, usageError("%s on numeric attribute %q requires an integer value, got %T",
				name, a.AttributeUniqueName, value)
		}
		return NewNumberFilter(a.AttributeUniqueName, nop, n), nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, usageError("%s on string attribute %q requires a string value, got %T",
			name, a.AttributeUniqueName, value)
	}
	return NewStringFilter(a.AttributeUniqueName, sop, s), nil
}

func (a *Attribute) order(name string, op NumberOperator, value int64) (Filter, error) {
	if !a.DataType.Numeric() {
		return nil, a.typeError(name)
	}
	return NewNumberFilter(a.AttributeUniqueName, op, value), nil
}

func (a *Attribute) substring(name string, op StringOperator, value string) (Filter, error) {
	if a.DataType.Numeric() {
		return nil, a.typeError(name)
	}
	return NewStringFilter(a.AttributeUniqueName, op, value), nil
}

func (a *Attribute) membership(name string, op NumberOperator, values []int64) (Filter, error) {
	if !a.DataType.Numeric() {
		return nil, a.typeError(name)
	}
	return NewMembershipFilter(a.AttributeUniqueName, op, values), nil
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// AttributeService provides access to the service's attribute catalog.
//
// The catalog is fetched once and shared for the life of the client; ByName
// loads it on first use and Refresh re-fetches it on demand.
type AttributeService interface {
	// List returns every attribute in the catalog, loading it if needed.
	List(ctx context.Context, opts ...RequestOption) ([]*Attribute, error)

	// ByName looks an attribute up by its unique name, loading the catalog
	// if needed. Unknown names yield a NotFoundError.
	ByName(ctx context.Context, name string, opts ...RequestOption) (*Attribute, error)

	// Refresh re-fetches the catalog from the service.
	Refresh(ctx context.Context, opts ...RequestOption) error
}

// attributeService implements AttributeService with a mutex-guarded,
// immutable-after-load catalog.
type attributeService struct {
	transport *api.Transport

	mu     sync.RWMutex
	loaded bool
	attrs  []*Attribute
	byName map[string]*Attribute
}

func newAttributeService(transport *api.Transport) *attributeService {
	return &attributeService{transport: transport}
}

func (s *attributeService) List(ctx context.Context, opts ...RequestOption) ([]*Attribute, error) {
	if err := s.ensureLoaded(ctx, opts...); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out, nil
}

func (s *attributeService) ByName(ctx context.Context, name string, opts ...RequestOption) (*Attribute, error) {
	if err := s.ensureLoaded(ctx, opts...); err != nil {
		return nil, err
	}
	s.mu.RLock()
	attr, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{
			APIError:     APIError{Message: "attribute not found"},
			ResourceType: "attribute",
			ResourceID:   name,
		}
	}
	return attr, nil
}

func (s *attributeService) Refresh(ctx context.Context, opts ...RequestOption) error {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var attrs []*Attribute
	_, err := do(ctx, s.transport, &api.Request{
		Method:  http.MethodGet,
		Path:    api.AttributeListPath,
		Headers: reqCfg.headers,
	}, &attrs)
	if err != nil {
		return err
	}

	byName := make(map[string]*Attribute, len(attrs))
	for _, attr := range attrs {
		byName[attr.AttributeUniqueName] = attr
	}

	s.mu.Lock()
	s.attrs = attrs
	s.byName = byName
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *attributeService) ensureLoaded(ctx context.Context, opts ...RequestOption) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx, opts...)
}
