package entities

// Condition is a state the wait layer can block on
type Condition string

const (
	ConditionVisible    Condition = "visible"
	ConditionClickable  Condition = "clickable"
	ConditionAnyPresent Condition = "anyPresent"
	ConditionAllPresent Condition = "allPresent"
	ConditionInvisible  Condition = "invisible"
)

// Valid reports whether c is one of the known conditions
func (c Condition) Valid() bool {
	switch c {
	case ConditionVisible, ConditionClickable, ConditionAnyPresent, ConditionAllPresent, ConditionInvisible:
		return true
	}
	return false
}
