package domain

// Operator identifies a comparison operator. Operators are grouped into five
// families; each declares the operand shape it expects so the condition
// evaluator can reject malformed conditions before dispatch.
type Operator string

// String family.
const (
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "not_equals"
	OpContainsAny    Operator = "contains_any"
	OpNotContainsAny Operator = "not_contains_any"
	OpStartsWithAny  Operator = "starts_with_any"
	OpEndsWithAny    Operator = "ends_with_any"
	OpMatchesRegex   Operator = "matches_regex"
)

// Numeric family.
const (
	OpNumericEquals      Operator = "numeric_equals"
	OpNumericNotEquals   Operator = "numeric_not_equals"
	OpGreaterThan        Operator = "greater_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThan           Operator = "less_than"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpBetween            Operator = "between"
)

// Date family.
const (
	OpDateEquals        Operator = "date_equals"
	OpDateNotEquals     Operator = "date_not_equals"
	OpDateAfter         Operator = "date_after"
	OpDateAfterOrEqual  Operator = "date_after_or_equal"
	OpDateBefore        Operator = "date_before"
	OpDateBeforeOrEqual Operator = "date_before_or_equal"
	OpDateBetween       Operator = "date_between"
	OpTimeBetween       Operator = "time_between"
	OpDayOfWeek         Operator = "day_of_week"
	OpIsBusinessDay     Operator = "is_business_day"
	OpIsHoliday         Operator = "is_holiday"
	OpScheduleCron      Operator = "schedule_cron"
)

// Version family (semantic-version ordering).
const (
	OpVersionEquals             Operator = "version_equals"
	OpVersionNotEquals          Operator = "version_not_equals"
	OpVersionGreaterThan        Operator = "version_greater_than"
	OpVersionGreaterThanOrEqual Operator = "version_greater_than_or_equal"
	OpVersionLessThan           Operator = "version_less_than"
	OpVersionLessThanOrEqual    Operator = "version_less_than_or_equal"
	OpVersionBetween            Operator = "version_between"
)

// Segment, boolean, and null family.
const (
	OpInSegment    Operator = "in_segment"
	OpNotInSegment Operator = "not_in_segment"
	OpIsTrue       Operator = "is_true"
	OpIsFalse      Operator = "is_false"
	OpIsNull       Operator = "is_null"
	OpIsNotNull    Operator = "is_not_null"
)

// Family groups operators by the comparator family that implements them.
type Family string

const (
	FamilyString     Family = "string"
	FamilyNumeric    Family = "numeric"
	FamilyDate       Family = "date"
	FamilyVersion    Family = "version"
	FamilyMembership Family = "membership"
)

// OperandShape declares what operand an operator expects.
type OperandShape int

const (
	// OperandNone: no operand is required; any present operand is ignored
	// except where noted (is_holiday/is_business_day accept an optional
	// region string).
	OperandNone OperandShape = iota
	// OperandScalar: a single non-nil value.
	OperandScalar
	// OperandArray: a non-empty array of candidates.
	OperandArray
	// OperandPair: a two-element [min, max] array.
	OperandPair
)

// OperatorSpec is the per-operator metadata consulted before dispatch.
type OperatorSpec struct {
	Family  Family
	Operand OperandShape
}

var operatorSpecs = map[Operator]OperatorSpec{
	OpEquals:         {FamilyString, OperandScalar},
	OpNotEquals:      {FamilyString, OperandScalar},
	OpContainsAny:    {FamilyString, OperandArray},
	OpNotContainsAny: {FamilyString, OperandArray},
	OpStartsWithAny:  {FamilyString, OperandArray},
	OpEndsWithAny:    {FamilyString, OperandArray},
	OpMatchesRegex:   {FamilyString, OperandScalar},

	OpNumericEquals:      {FamilyNumeric, OperandScalar},
	OpNumericNotEquals:   {FamilyNumeric, OperandScalar},
	OpGreaterThan:        {FamilyNumeric, OperandScalar},
	OpGreaterThanOrEqual: {FamilyNumeric, OperandScalar},
	OpLessThan:           {FamilyNumeric, OperandScalar},
	OpLessThanOrEqual:    {FamilyNumeric, OperandScalar},
	OpBetween:            {FamilyNumeric, OperandPair},

	OpDateEquals:        {FamilyDate, OperandScalar},
	OpDateNotEquals:     {FamilyDate, OperandScalar},
	OpDateAfter:         {FamilyDate, OperandScalar},
	OpDateAfterOrEqual:  {FamilyDate, OperandScalar},
	OpDateBefore:        {FamilyDate, OperandScalar},
	OpDateBeforeOrEqual: {FamilyDate, OperandScalar},
	OpDateBetween:       {FamilyDate, OperandPair},
	OpTimeBetween:       {FamilyDate, OperandPair},
	OpDayOfWeek:         {FamilyDate, OperandArray},
	OpIsBusinessDay:     {FamilyDate, OperandNone},
	OpIsHoliday:         {FamilyDate, OperandNone},
	OpScheduleCron:      {FamilyDate, OperandScalar},

	OpVersionEquals:             {FamilyVersion, OperandScalar},
	OpVersionNotEquals:          {FamilyVersion, OperandScalar},
	OpVersionGreaterThan:        {FamilyVersion, OperandScalar},
	OpVersionGreaterThanOrEqual: {FamilyVersion, OperandScalar},
	OpVersionLessThan:           {FamilyVersion, OperandScalar},
	OpVersionLessThanOrEqual:    {FamilyVersion, OperandScalar},
	OpVersionBetween:            {FamilyVersion, OperandPair},

	OpInSegment:    {FamilyMembership, OperandScalar},
	OpNotInSegment: {FamilyMembership, OperandScalar},
	OpIsTrue:       {FamilyMembership, OperandNone},
	OpIsFalse:      {FamilyMembership, OperandNone},
	OpIsNull:       {FamilyMembership, OperandNone},
	OpIsNotNull:    {FamilyMembership, OperandNone},
}

// SpecFor returns the metadata for op and whether op is known.
func SpecFor(op Operator) (OperatorSpec, bool) {
	spec, ok := operatorSpecs[op]
	return spec, ok
}

// Known reports whether op is a registered operator.
func (op Operator) Known() bool {
	_, ok := operatorSpecs[op]
	return ok
}

// Operators returns every registered operator. Ordering is unspecified.
func Operators() []Operator {
	ops := make([]Operator, 0, len(operatorSpecs))
	for op := range operatorSpecs {
		ops = append(ops, op)
	}
	return ops
}
