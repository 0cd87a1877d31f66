package conditions

import "reflect"

// Condition is an extra, host-supplied requirement for showing the prompt.
type Condition interface {
	// ConditionMet returns true if the prompt may be shown as far as this condition is concerned.
	ConditionMet() bool
}

// Func adapts a plain function to the Condition interface.
type Func func() bool

// ConditionMet calls f.
func (f Func) ConditionMet() bool {
	return f()
}

// Set is an ordered collection of conditions. The zero value is ready to use.
type Set struct {
	items []Condition
}

// Add appends a condition.
func (s *Set) Add(c Condition) {
	s.items = append(s.items, c)
}

// Remove drops the first occurrence of c and reports whether it was present.
// Conditions whose dynamic type is not comparable (such as Func) are never matched.
func (s *Set) Remove(c Condition) bool {
	for i, item := range s.items {
		if isComparable(item) && isComparable(c) && item == c {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered conditions.
func (s *Set) Len() int {
	return len(s.items)
}

// All returns a copy of the registered conditions.
func (s *Set) All() []Condition {
	out := make([]Condition, len(s.items))
	copy(out, s.items)
	return out
}

// AllMet reports whether every condition holds. An empty set is met.
func AllMet(conds []Condition) bool {
	for _, c := range conds {
		if !c.ConditionMet() {
			return false
		}
	}
	return true
}

func isComparable(c Condition) bool {
	return c != nil && reflect.TypeOf(c).Comparable()
}
