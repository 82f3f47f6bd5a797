package grammar

import "strconv"

// RuleID identifies a compiled grammar rule.
type RuleID int

// Sentinel rule ids. They format like ordinary ids.
const (
	NoRule    RuleID = 0
	EndRule   RuleID = -1
	WhileRule RuleID = -2
)

// String returns the decimal id.
func (id RuleID) String() string {
	return strconv.Itoa(int(id))
}
