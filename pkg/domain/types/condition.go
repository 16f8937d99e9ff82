package types

// ConditionOperator represents the comparison applied between a field's
// current value and a configured operand
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "not_contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorIsEmpty     ConditionOperator = "is_empty"
	OperatorIsNotEmpty  ConditionOperator = "is_not_empty"
)

// AllConditionOperators returns all valid condition operators
func AllConditionOperators() []ConditionOperator {
	return []ConditionOperator{
		OperatorEquals,
		OperatorNotEquals,
		OperatorContains,
		OperatorNotContains,
		OperatorGreaterThan,
		OperatorLessThan,
		OperatorIsEmpty,
		OperatorIsNotEmpty,
	}
}

// IsValid checks if the condition operator is valid
func (o ConditionOperator) IsValid() bool {
	switch o {
	case OperatorEquals,
		OperatorNotEquals,
		OperatorContains,
		OperatorNotContains,
		OperatorGreaterThan,
		OperatorLessThan,
		OperatorIsEmpty,
		OperatorIsNotEmpty:
		return true
	default:
		return false
	}
}

// String returns the string representation of the condition operator
func (o ConditionOperator) String() string {
	return string(o)
}

// ConditionAction determines how a met condition affects field visibility
type ConditionAction string

const (
	ConditionActionShow ConditionAction = "show"
	ConditionActionHide ConditionAction = "hide"
)

// IsValid checks if the condition action is valid
func (a ConditionAction) IsValid() bool {
	return a == ConditionActionShow || a == ConditionActionHide
}

// String returns the string representation of the condition action
func (a ConditionAction) String() string {
	return string(a)
}
