package ftk_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ftk "github.com/AccessDataOps/FTK-API-SDK"
)

const (
	stringFilterType     = `ADG.Service.Interfaces.DataContracts.Filtering.Grid.StringColumnFilter, ADG.Service.Interfaces`
	comparisonFilterType = `ADG.Service.Interfaces.DataContracts.Filtering.Grid.GridColumnComparisonFilter, ADG.Service.Interfaces`
	membershipFilterType = `ADG.Service.Interfaces.DataContracts.Filtering.Grid.GridColumnFilter, ADG.Service.Interfaces`
	binaryFilterType     = `ADG.Service.Interfaces.DataContracts.Filtering.BinaryOperatorFilter, ADG.Service.Interfaces`
)

func marshalFilter(t *testing.T, f ftk.Filter) string {
	t.Helper()
	data, err := json.Marshal(f)
	require.NoError(t, err)
	return string(data)
}

func TestNewStringFilter(t *testing.T) {
	t.Run("contains", func(t *testing.T) {
		f := ftk.NewStringFilter("FileName", ftk.StringContains, "invoice")
		assert.JSONEq(t, `{
			"$type": "`+stringFilterType+`",
			"staticAttributeName": "FileName",
			"operator": 2,
			"operand": "invoice"
		}`, marshalFilter(t, f))
	})

	t.Run("equal to", func(t *testing.T) {
		f := ftk.NewStringFilter("FileType", ftk.StringEqualTo, "PDF")
		assert.JSONEq(t, `{
			"$type": "`+stringFilterType+`",
			"staticAttributeName": "FileType",
			"operator": 0,
			"operand": "PDF"
		}`, marshalFilter(t, f))
	})
}

func TestNewNumberFilter(t *testing.T) {
	t.Run("comparison", func(t *testing.T) {
		f := ftk.NewNumberFilter("FileSize", ftk.NumberGreaterThan, 1024)
		assert.JSONEq(t, `{
			"$type": "`+comparisonFilterType+`",
			"staticAttributeName": "FileSize",
			"operator": 0,
			"value": 1024
		}`, marshalFilter(t, f))
	})

	t.Run("not equal to", func(t *testing.T) {
		f := ftk.NewNumberFilter("ObjectType", ftk.NumberNotEqualTo, 3)
		assert.JSONEq(t, `{
			"$type": "`+comparisonFilterType+`",
			"staticAttributeName": "ObjectType",
			"operator": 5,
			"value": 3
		}`, marshalFilter(t, f))
	})

	t.Run("includes becomes single-element membership", func(t *testing.T) {
		f := ftk.NewNumberFilter("LabelID", ftk.NumberIncludes, 7)
		assert.JSONEq(t, `{
			"$type": "`+membershipFilterType+`",
			"staticAttributeName": "LabelID",
			"mode": 0,
			"values": [7]
		}`, marshalFilter(t, f))
	})

	t.Run("excludes becomes single-element membership", func(t *testing.T) {
		f := ftk.NewNumberFilter("LabelID", ftk.NumberExcludes, 7)
		assert.JSONEq(t, `{
			"$type": "`+membershipFilterType+`",
			"staticAttributeName": "LabelID",
			"mode": 1,
			"values": [7]
		}`, marshalFilter(t, f))
	})
}

func TestNewMembershipFilter(t *testing.T) {
	t.Run("includes", func(t *testing.T) {
		f := ftk.NewMembershipFilter("LabelID", ftk.NumberIncludes, []int64{1, 2, 3})
		assert.JSONEq(t, `{
			"$type": "`+membershipFilterType+`",
			"staticAttributeName": "LabelID",
			"mode": 0,
			"values": [1, 2, 3]
		}`, marshalFilter(t, f))
	})

	t.Run("excludes", func(t *testing.T) {
		f := ftk.NewMembershipFilter("EvidenceID", ftk.NumberExcludes, []int64{9})
		assert.JSONEq(t, `{
			"$type": "`+membershipFilterType+`",
			"staticAttributeName": "EvidenceID",
			"mode": 1,
			"values": [9]
		}`, marshalFilter(t, f))
	})
}

func TestFilterCombinators(t *testing.T) {
	t.Run("and nests left and right", func(t *testing.T) {
		f := ftk.And(
			ftk.NewStringFilter("FileName", ftk.StringEndsWith, ".docx"),
			ftk.NewNumberFilter("FileSize", ftk.NumberLessThan, 4096),
		)
		assert.JSONEq(t, `{
			"$type": "`+binaryFilterType+`",
			"operator": "AND",
			"left": {
				"$type": "`+stringFilterType+`",
				"staticAttributeName": "FileName",
				"operator": 4,
				"operand": ".docx"
			},
			"right": {
				"$type": "`+comparisonFilterType+`",
				"staticAttributeName": "FileSize",
				"operator": 2,
				"value": 4096
			}
		}`, marshalFilter(t, f))
	})

	t.Run("or", func(t *testing.T) {
		f := ftk.Or(
			ftk.NewNumberFilter("ObjectType", ftk.NumberEqualTo, 1),
			ftk.NewNumberFilter("ObjectType", ftk.NumberEqualTo, 2),
		)
		data := marshalFilter(t, f)
		assert.Contains(t, data, `"operator":"OR"`)
	})

	t.Run("chained combination nests", func(t *testing.T) {
		inner := ftk.And(
			ftk.NewNumberFilter("A", ftk.NumberEqualTo, 1),
			ftk.NewNumberFilter("B", ftk.NumberEqualTo, 2),
		)
		outer := ftk.And(inner, ftk.NewNumberFilter("C", ftk.NumberEqualTo, 3))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(marshalFilter(t, outer)), &decoded))
		left, ok := decoded["left"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "AND", left["operator"])
	})

	t.Run("nil children serialize as empty object", func(t *testing.T) {
		f := ftk.And(nil, ftk.NewNumberFilter("FileSize", ftk.NumberEqualTo, 1))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(marshalFilter(t, f)), &decoded))
		assert.Equal(t, map[string]any{}, decoded["left"])
	})
}
