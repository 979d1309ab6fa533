package models

import "fmt"

// ScopePredicate restricts every record source to the subtree an actor may see.
// The zero value admits nothing.
type ScopePredicate struct {
	Unrestricted bool           `json:"unrestricted"`
	Level        HierarchyLevel `json:"level,omitempty"`
	EntityID     string         `json:"entity_id,omitempty"`
	ObserverID   string         `json:"observer_id,omitempty"`
}

// UnrestrictedScope admits every record.
func UnrestrictedScope() ScopePredicate {
	return ScopePredicate{Unrestricted: true}
}

// SubtreeScope admits records whose owning chain contains the entity.
func SubtreeScope(level HierarchyLevel, entityID string) ScopePredicate {
	return ScopePredicate{Level: level, EntityID: entityID}
}

// ObserverScope admits records observed by the actor.
func ObserverScope(observerID string) ScopePredicate {
	return ScopePredicate{ObserverID: observerID}
}

// Empty reports whether the predicate admits nothing.
func (p ScopePredicate) Empty() bool {
	return !p.Unrestricted && (p.Level == "" || p.EntityID == "") && p.ObserverID == ""
}

func (p ScopePredicate) String() string {
	switch {
	case p.Unrestricted:
		return "all"
	case p.Level != "" && p.EntityID != "":
		return fmt.Sprintf("%s:%s", p.Level, p.EntityID)
	case p.ObserverID != "":
		return fmt.Sprintf("observer:%s", p.ObserverID)
	}
	return "none"
}
