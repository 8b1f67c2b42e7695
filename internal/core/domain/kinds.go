package domain

import "strings"

// EntityKind is the closed set of entity shapes a specification can describe.
// Every kind needs a state fetcher registered; see AllEntityKinds.
type EntityKind int

const (
	EntityKindTable EntityKind = iota + 1
	EntityKindFunction
	EntityKindCode
)

// AllEntityKinds lists every kind the pipeline can dispatch on. Adding a kind
// here without registering a fetcher fails bootstrap.
func AllEntityKinds() []EntityKind {
	return []EntityKind{EntityKindTable, EntityKindFunction, EntityKindCode}
}

// ParseEntityKind maps a stored entity_type tag to its kind. Anything that is
// not a table or a function is treated as code (endpoints, files, modules).
func ParseEntityKind(tag string) EntityKind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "table":
		return EntityKindTable
	case "function":
		return EntityKindFunction
	default:
		return EntityKindCode
	}
}

func (k EntityKind) String() string {
	switch k {
	case EntityKindTable:
		return "table"
	case EntityKindFunction:
		return "function"
	case EntityKindCode:
		return "code"
	default:
		return "unknown"
	}
}
