package diagram

import "strings"

// Kind is the subtype of a diagram block, derived from its first line.
type Kind int

// Diagram subtypes.
const (
	KindGeneric Kind = iota
	KindFlow
	KindSequence
	KindEntityRelationship
	KindClass
	KindPie
)

// Label returns the human-readable label shown in static fragments.
func (k Kind) Label() string {
	switch k {
	case KindFlow:
		return "Flow Diagram"
	case KindSequence:
		return "Sequence Diagram"
	case KindEntityRelationship:
		return "Entity Relationship Diagram"
	case KindClass:
		return "Class Diagram"
	case KindPie:
		return "Pie Chart"
	default:
		return "Diagram"
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return k.Label()
}

// rule maps a leading keyword of a diagram's first line to its subtype.
type rule struct {
	prefix string
	kind   Kind
}

// rules are evaluated in order; the first matching prefix wins.
var rules = []rule{
	{prefix: "graph", kind: KindFlow},
	{prefix: "sequenceDiagram", kind: KindSequence},
	{prefix: "erDiagram", kind: KindEntityRelationship},
	{prefix: "classDiagram", kind: KindClass},
	{prefix: "pie", kind: KindPie},
}

// Classify returns the subtype for a diagram whose first line is firstLine.
// Surrounding whitespace is ignored. Unknown keywords yield KindGeneric.
func Classify(firstLine string) Kind {
	line := strings.TrimSpace(firstLine)
	for _, r := range rules {
		if strings.HasPrefix(line, r.prefix) {
			return r.kind
		}
	}
	return KindGeneric
}

// classifyPayload classifies a whole payload by its first non-blank line.
func classifyPayload(payload string) Kind {
	trimmed := strings.TrimSpace(payload)
	first, _, _ := strings.Cut(trimmed, "\n")
	return Classify(first)
}
