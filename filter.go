package ftk

// Filters are immutable predicate trees serialized verbatim into request
// bodies. Composing them never talks to the network; the service only sees a
// filter once it is attached to a page fetch or job submission.

// $type discriminators required by the service's filter contract.
const (
	stringFilterType = "ADG.Service.Interfaces.DataContracts.Filtering.Grid." +
		"StringColumnFilter, ADG.Service.Interfaces"
	comparisonFilterType = "ADG.Service.Interfaces.DataContracts.Filtering.Grid." +
		"GridColumnComparisonFilter, ADG.Service.Interfaces"
	membershipFilterType = "ADG.Service.Interfaces.DataContracts.Filtering.Grid." +
		"GridColumnFilter, ADG.Service.Interfaces"
	binaryFilterType = "ADG.Service.Interfaces.DataContracts.Filtering." +
		"BinaryOperatorFilter, ADG.Service.Interfaces"
)

// StringOperator enumerates comparison operators valid on string attributes.
type StringOperator int

const (
	StringEqualTo    StringOperator = 0
	StringNotEqualTo StringOperator = 1
	StringContains   StringOperator = 2
	StringStartsWith StringOperator = 3
	StringEndsWith   StringOperator = 4
)

func (op StringOperator) String() string {
	switch op {
	case StringEqualTo:
		return "EqualTo"
	case StringNotEqualTo:
		return "NotEqualTo"
	case StringContains:
		return "Contains"
	case StringStartsWith:
		return "StartsWith"
	case StringEndsWith:
		return "EndsWith"
	default:
		return "Unknown"
	}
}

// NumberOperator enumerates comparison and set-membership operators valid on
// numeric attributes.
type NumberOperator int

const (
	NumberGreaterThan        NumberOperator = 0
	NumberGreaterThanEqualTo NumberOperator = 1
	NumberLessThan           NumberOperator = 2
	NumberLessThanEqualTo    NumberOperator = 3
	NumberEqualTo            NumberOperator = 4
	NumberNotEqualTo         NumberOperator = 5

	// Includes and Excludes serialize as a set-membership filter (mode flag
	// plus value list), a distinct wire shape from the comparison filters.
	NumberIncludes NumberOperator = 6
	NumberExcludes NumberOperator = 7
)

func (op NumberOperator) String() string {
	switch op {
	case NumberGreaterThan:
		return "GreaterThan"
	case NumberGreaterThanEqualTo:
		return "GreaterThanEqualTo"
	case NumberLessThan:
		return "LessThan"
	case NumberLessThanEqualTo:
		return "LessThanEqualTo"
	case NumberEqualTo:
		return "EqualTo"
	case NumberNotEqualTo:
		return "NotEqualTo"
	case NumberIncludes:
		return "Includes"
	case NumberExcludes:
		return "Excludes"
	default:
		return "Unknown"
	}
}

// Filter is a composable predicate over a case's object set. Two structurally
// equal filters are interchangeable; a nil Filter means "match everything"
// and serializes as an empty object.
type Filter interface {
	filterNode()
}

type stringFilter struct {
	Type      string         `json:"$type"`
	Attribute string         `json:"staticAttributeName"`
	Operator  StringOperator `json:"operator"`
	Operand   string         `json:"operand"`
}

func (stringFilter) filterNode() {}

type comparisonFilter struct {
	Type      string         `json:"$type"`
	Attribute string         `json:"staticAttributeName"`
	Operator  NumberOperator `json:"operator"`
	Value     int64          `json:"value"`
}

func (comparisonFilter) filterNode() {}

type membershipFilter struct {
	Type      string  `json:"$type"`
	Attribute string  `json:"staticAttributeName"`
	Mode      int     `json:"mode"`
	Values    []int64 `json:"values"`
}

func (membershipFilter) filterNode() {}

type binaryFilter struct {
	Type     string `json:"$type"`
	Operator string `json:"operator"`
	Left     Filter `json:"left"`
	Right    Filter `json:"right"`
}

func (binaryFilter) filterNode() {}

// emptyFilter serializes as {} and matches everything.
type emptyFilter struct{}

func (emptyFilter) filterNode() {}

// orEmpty substitutes the always-true filter for nil so request bodies carry
// {} rather than null.
func orEmpty(f Filter) Filter {
	if f == nil {
		return emptyFilter{}
	}
	return f
}

// NewStringFilter builds a leaf predicate comparing a string attribute
// against a value.
func NewStringFilter(attribute string, op StringOperator, value string) Filter {
	return stringFilter{
		Type:      stringFilterType,
		Attribute: attribute,
		Operator:  op,
		Operand:   value,
	}
}

// NewNumberFilter builds a leaf predicate comparing a numeric attribute
// against a value. NumberIncludes and NumberExcludes produce a single-element
// membership filter; use NewMembershipFilter for value lists.
func NewNumberFilter(attribute string, op NumberOperator, value int64) Filter {
	if op == NumberIncludes || op == NumberExcludes {
		return NewMembershipFilter(attribute, op, []int64{value})
	}
	return comparisonFilter{
		Type:      comparisonFilterType,
		Attribute: attribute,
		Operator:  op,
		Value:     value,
	}
}

// NewMembershipFilter builds a set-membership predicate over a numeric
// attribute. Only NumberIncludes and NumberExcludes are meaningful here; any
// other operator is treated as NumberIncludes.
func NewMembershipFilter(attribute string, op NumberOperator, values []int64) Filter {
	mode := int(op) - int(NumberIncludes)
	if mode < 0 || mode > 1 {
		mode = 0
	}
	return membershipFilter{
		Type:      membershipFilterType,
		Attribute: attribute,
		Mode:      mode,
		Values:    values,
	}
}

// And combines two filters so both must match. Combinators are strictly
// binary; chained combination nests.
func And(left, right Filter) Filter {
	return binaryFilter{
		Type:     binaryFilterType,
		Operator: "AND",
		Left:     orEmpty(left),
		Right:    orEmpty(right),
	}
}

// Or combines two filters so either may match.
func Or(left, right Filter) Filter {
	return binaryFilter{
		Type:     binaryFilterType,
		Operator: "OR",
		Left:     orEmpty(left),
		Right:    orEmpty(right),
	}
}
