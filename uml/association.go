package uml

// AssociationKind classifies an association from its owner's viewpoint.
type AssociationKind string

const (
	KindAssociation    AssociationKind = "association"
	KindAggregation    AssociationKind = "aggregation"
	KindInheritance    AssociationKind = "inheritance"
	KindGeneralization AssociationKind = "generalization"
)

func (k AssociationKind) String() string { return string(k) }

// Association describes one relationship of a class, computed from that
// class's viewpoint. Two classes joined by one link each carry their own
// record.
//
// Association is comparable; records with identical fields are duplicates.
type Association struct {
	XMIID                  string          `json:"xmi_id,omitempty" yaml:"xmi_id,omitempty" toml:"xmi_id,omitempty"`
	MemberEnd              string          `json:"member_end" yaml:"member_end" toml:"member_end"`
	MemberEndType          AssociationKind `json:"member_end_type" yaml:"member_end_type" toml:"member_end_type"`
	MemberEndCardinality   Cardinality     `json:"member_end_cardinality" yaml:"member_end_cardinality" toml:"member_end_cardinality"`
	MemberEndAttributeName string          `json:"member_end_attribute_name,omitempty" yaml:"member_end_attribute_name,omitempty" toml:"member_end_attribute_name,omitempty"`
	MemberEndXMIID         string          `json:"member_end_xmi_id" yaml:"member_end_xmi_id" toml:"member_end_xmi_id"`
	OwnerEnd               string          `json:"owner_end,omitempty" yaml:"owner_end,omitempty" toml:"owner_end,omitempty"`
	OwnerEndXMIID          string          `json:"owner_end_xmi_id" yaml:"owner_end_xmi_id" toml:"owner_end_xmi_id"`
	Definition             string          `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
}

// Optionality is the symbolic lower bound of a cardinality.
type Optionality string

const (
	// Mandatory is written for a raw lower bound of "1".
	Mandatory Optionality = "M"
	// Conditional is written for a raw lower bound of "0".
	Conditional Optionality = "C"
)

// Cardinality is a {min, max} occurrence bound. Either side is empty when
// the source did not supply it; no default is ever substituted.
type Cardinality struct {
	Min Optionality `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max string      `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
}

// IsZero reports whether both bounds are absent.
func (c Cardinality) IsZero() bool { return c.Min == "" && c.Max == "" }

// String renders the cardinality as "min..max" with "?" for absent bounds.
func (c Cardinality) String() string {
	if c.IsZero() {
		return ""
	}
	lo, hi := string(c.Min), c.Max
	if lo == "" {
		lo = "?"
	}
	if hi == "" {
		hi = "?"
	}
	return lo + ".." + hi
}
