package grammar

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// StateStack is the persistent tokenizer state: one frame per grammar rule
// currently entered. Frames are shared between the states of successive
// lines.
//
// Enter and anchor positions are per-pass scratch values. They are not part
// of a frame's identity and Reset clears them in place, so a chain must not
// be reset while another goroutine reads it.
type StateStack struct {
	parent               *StateStack
	depth                int
	ruleID               RuleID
	enterPos             int
	anchorPos            int
	beginRuleCapturedEOL bool
	endRule              string
	nameScopes           *AttributedScopeStack
	contentNameScopes    *AttributedScopeStack
}

// Null is the base state with NoRule.
var Null = NewStateStack(nil, NoRule, 0, 0, false, "", nil, nil)

// NewStateStack creates a frame on top of parent. An empty endRule means the
// frame has no resolved end pattern.
func NewStateStack(
	parent *StateStack,
	ruleID RuleID,
	enterPos, anchorPos int,
	beginRuleCapturedEOL bool,
	endRule string,
	nameScopes, contentNameScopes *AttributedScopeStack,
) *StateStack {
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	return &StateStack{
		parent:               parent,
		depth:                depth,
		ruleID:               ruleID,
		enterPos:             enterPos,
		anchorPos:            anchorPos,
		beginRuleCapturedEOL: beginRuleCapturedEOL,
		endRule:              endRule,
		nameScopes:           nameScopes,
		contentNameScopes:    contentNameScopes,
	}
}

// Parent returns the enclosing frame, or nil at the root.
func (s *StateStack) Parent() *StateStack { return s.parent }

// Depth is 1 for a root frame.
func (s *StateStack) Depth() int { return s.depth }

// RuleID returns the id of the rule this frame runs.
func (s *StateStack) RuleID() RuleID { return s.ruleID }

// EndRule returns the resolved end pattern, or "".
func (s *StateStack) EndRule() string { return s.endRule }

// BeginRuleCapturedEOL reports whether the begin match consumed the end of line.
func (s *StateStack) BeginRuleCapturedEOL() bool { return s.beginRuleCapturedEOL }

// NameScopesList returns the scopes of the rule's name.
func (s *StateStack) NameScopesList() *AttributedScopeStack { return s.nameScopes }

// ContentNameScopesList returns the scopes applied to the rule's content.
func (s *StateStack) ContentNameScopesList() *AttributedScopeStack { return s.contentNameScopes }

// EnterPos returns the scratch position the frame was entered at, or -1.
func (s *StateStack) EnterPos() int { return s.enterPos }

// AnchorPos returns the scratch \G anchor position, or -1.
func (s *StateStack) AnchorPos() int { return s.anchorPos }

// Push returns a new frame with s as parent.
func (s *StateStack) Push(
	ruleID RuleID,
	enterPos, anchorPos int,
	beginRuleCapturedEOL bool,
	endRule string,
	nameScopes, contentNameScopes *AttributedScopeStack,
) *StateStack {
	return NewStateStack(s, ruleID, enterPos, anchorPos, beginRuleCapturedEOL, endRule, nameScopes, contentNameScopes)
}

// Pop returns the parent frame, which is nil at the root.
func (s *StateStack) Pop() *StateStack {
	return s.parent
}

// SafePop returns the parent frame, or s at the root.
func (s *StateStack) SafePop() *StateStack {
	if s.parent != nil {
		return s.parent
	}
	return s
}

// Reset sets the enter and anchor positions of every frame in the chain to -1.
func (s *StateStack) Reset() {
	for el := s; el != nil; el = el.parent {
		el.enterPos = -1
		el.anchorPos = -1
	}
}

// WithEndRule returns s if its end rule already equals endRule, otherwise a
// copy of s with the new end rule.
func (s *StateStack) WithEndRule(endRule string) *StateStack {
	if s.endRule == endRule {
		return s
	}
	return NewStateStack(s.parent, s.ruleID, s.enterPos, s.anchorPos, s.beginRuleCapturedEOL,
		endRule, s.nameScopes, s.contentNameScopes)
}

// WithContentNameScopesList returns s if its content scopes are structurally
// equal to scopes, otherwise a replacement frame pushed onto s's parent.
func (s *StateStack) WithContentNameScopesList(scopes *AttributedScopeStack) *StateStack {
	if s.contentNameScopes.Equals(scopes) {
		return s
	}
	return NewStateStack(s.parent, s.ruleID, s.enterPos, s.anchorPos, s.beginRuleCapturedEOL,
		s.endRule, s.nameScopes, scopes)
}

// HasSameRuleAs reports whether both frames run the same rule.
func (s *StateStack) HasSameRuleAs(other *StateStack) bool {
	return other != nil && s.ruleID == other.ruleID
}

// Equals compares depth, rule id and end rule of every frame, and the content
// scopes of the top frame. Name scopes are not compared.
func (s *StateStack) Equals(other *StateStack) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return structuralEquals(s, other) && s.contentNameScopes.Equals(other.contentNameScopes)
}

func structuralEquals(a, b *StateStack) bool {
	for {
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		if a.depth != b.depth || a.ruleID != b.ruleID || a.endRule != b.endRule {
			return false
		}
		a, b = a.parent, b.parent
	}
}

// Hash is consistent with Equals: parent frames contribute only the fields
// Equals compares for them.
func (s *StateStack) Hash() uint64 {
	if s == nil {
		return 0
	}
	return frameHash(s) + s.contentNameScopes.Hash()
}

func frameHash(s *StateStack) uint64 {
	var h uint64
	for ; s != nil; s = s.parent {
		h += uint64(s.depth) + uint64(int64(s.ruleID)) + xxhash.Sum64String(s.endRule)
	}
	return h
}

// String renders the rule ids from root to s, e.g. "[(1), (4)]".
func (s *StateStack) String() string {
	ids := make([]RuleID, s.depth)
	el := s
	for i := s.depth - 1; i >= 0; i-- {
		ids[i] = el.ruleID
		el = el.parent
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		b.WriteString(id.String())
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}
