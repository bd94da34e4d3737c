package ftk

import "encoding/json"

// MetaAttribute is one metadata row attached to an Object, keyed by the
// attribute's unique name.
type MetaAttribute struct {
	StaticAttributeUniqueName string `json:"staticAttributeUniqueName"`
	Value                     any    `json:"value"`
}

// Object is one entry within a case: a file, directory, email, or any other
// item the platform has catalogued. Declared response fields land in Fields;
// per-column values requested through the attribute list arrive in Meta.
type Object struct {
	// Fields holds the object's primary fields as decoded from the response.
	Fields map[string]any

	// Meta holds the requested attribute columns for this object.
	Meta []MetaAttribute
}

// UnmarshalJSON splits the response into primary fields and the metadata
// column list.
func (o *Object) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["metaData"]; ok {
		delete(fields, "metaData")
		buf, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(buf, &o.Meta); err != nil {
			return err
		}
	}
	o.Fields = fields
	return nil
}

// Get looks a value up by key: primary fields first, then a scan over the
// metadata columns by attribute unique name. The second return reports
// whether the key was found at all.
func (o *Object) Get(key string) (any, bool) {
	if v, ok := o.Fields[key]; ok {
		return v, true
	}
	for _, meta := range o.Meta {
		if meta.StaticAttributeUniqueName == key {
			return meta.Value, true
		}
	}
	return nil, false
}

// ID returns the object's id, or zero when absent.
func (o *Object) ID() int64 {
	v, ok := o.Fields["id"]
	if !ok {
		return 0
	}
	n, _ := toInt64(v)
	return n
}

// AppliedLabelIDs returns the ids of labels applied to the object.
func (o *Object) AppliedLabelIDs() []int64 {
	raw, ok := o.Fields["appliedLabelIds"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(list))
	for _, v := range list {
		if n, ok := toInt64(v); ok {
			ids = append(ids, n)
		}
	}
	return ids
}

// ObjectPage is one fixed-size slice of a case's object set.
type ObjectPage struct {
	Entities   []*Object `json:"entities"`
	TotalCount int       `json:"totalCount"`

	// PageNumber and PageSize echo the request; they are filled in
	// client-side, not by the service.
	PageNumber int `json:"-"`
	PageSize   int `json:"-"`
}

// TotalPages returns the number of pages needed to cover TotalCount at this
// page size.
func (p *ObjectPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// column is one entry of the page request's column list.
type column struct {
	Attribute string `json:"attribute"`
}

// pageRequest is the page-fetch request body.
type pageRequest struct {
	Columns []column `json:"columns"`
	Filter  Filter   `json:"filter"`
}

func newPageRequest(filter Filter, attributes []*Attribute) *pageRequest {
	columns := make([]column, 0, len(attributes))
	for _, attr := range attributes {
		columns = append(columns, column{Attribute: attr.AttributeUniqueName})
	}
	return &pageRequest{
		Columns: columns,
		Filter:  orEmpty(filter),
	}
}
