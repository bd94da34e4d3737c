package ftk_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ftk "github.com/AccessDataOps/FTK-API-SDK"
)

func TestObject_Unmarshal(t *testing.T) {
	var obj ftk.Object
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 42,
		"appliedLabelIds": [3, 5],
		"metaData": [
			{"staticAttributeUniqueName": "FileName", "value": "report.pdf"},
			{"staticAttributeUniqueName": "FileSize", "value": 2048}
		]
	}`), &obj))

	assert.Equal(t, int64(42), obj.ID())
	assert.Equal(t, []int64{3, 5}, obj.AppliedLabelIDs())

	// metaData is split out of the primary field map.
	_, ok := obj.Fields["metaData"]
	assert.False(t, ok)
	require.Len(t, obj.Meta, 2)

	name, ok := obj.Get("FileName")
	require.True(t, ok)
	assert.Equal(t, "report.pdf", name)

	id, ok := obj.Get("id")
	require.True(t, ok)
	assert.Equal(t, float64(42), id)

	_, ok = obj.Get("NoSuchKey")
	assert.False(t, ok)
}

func TestObject_GetPrefersPrimaryFields(t *testing.T) {
	var obj ftk.Object
	require.NoError(t, json.Unmarshal([]byte(`{
		"FileName": "primary.txt",
		"metaData": [{"staticAttributeUniqueName": "FileName", "value": "meta.txt"}]
	}`), &obj))

	v, ok := obj.Get("FileName")
	require.True(t, ok)
	assert.Equal(t, "primary.txt", v)
}

func TestObjectPage_TotalPages(t *testing.T) {
	for _, tc := range []struct {
		total, size, want int
	}{
		{0, 100, 0},
		{1, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
		{5, 2, 3},
		{4, 2, 2},
	} {
		page := &ftk.ObjectPage{TotalCount: tc.total, PageSize: tc.size}
		assert.Equal(t, tc.want, page.TotalPages(), "total=%d size=%d", tc.total, tc.size)
	}
}
