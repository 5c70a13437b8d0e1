package issues

// Type is the closed issue-type enumeration. Wire values are what the
// backend stores; labels are for pickers.
type Type string

const (
	TypeQuestion      Type = "QUESTION"
	TypeBug           Type = "BUG"
	TypeDocumentation Type = "DOCUMENTATION"
	TypeFeature       Type = "FEATURE"
)

// Types lists every issue type, in display order.
var Types = []Type{TypeQuestion, TypeBug, TypeDocumentation, TypeFeature}

// Label returns the human-readable form of the type.
func (t Type) Label() string {
	switch t {
	case TypeQuestion:
		return "Question"
	case TypeBug:
		return "Bug"
	case TypeDocumentation:
		return "Documentation"
	case TypeFeature:
		return "Feature"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the closed set.
func (t Type) Valid() bool {
	switch t {
	case TypeQuestion, TypeBug, TypeDocumentation, TypeFeature:
		return true
	}
	return false
}

// Priority is the closed priority enumeration. PriorityNone has no wire
// value: it serializes to field omission, never to null or "".
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every selectable priority, None first.
var Priorities = []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh}

// Label returns the human-readable form of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityNone:
		return "None"
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

// Valid reports whether p is one of the closed set, None included.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
