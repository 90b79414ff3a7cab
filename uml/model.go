// Package uml holds the UML document graph assembled from an XMI export.
//
// Every value in this package is produced once by the loader and never
// mutated afterwards. Optional text fields are empty when the source did
// not supply them or when a cross reference could not be resolved; the two
// cases are not distinguished.
package uml

// Package is a UML package. Packages nest to arbitrary depth.
type Package struct {
	XMIID      string    `json:"xmi_id" yaml:"xmi_id" toml:"xmi_id"`
	Name       string    `json:"name" yaml:"name" toml:"name"`
	Definition string    `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
	Stereotype string    `json:"stereotype,omitempty" yaml:"stereotype,omitempty" toml:"stereotype,omitempty"`
	Packages   []Package `json:"packages,omitempty" yaml:"packages,omitempty" toml:"packages,omitempty"`
	Classes    []Class   `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty"`
	Enums      []Enum    `json:"enums,omitempty" yaml:"enums,omitempty" toml:"enums,omitempty"`
	DataTypes  []Class   `json:"data_types,omitempty" yaml:"data_types,omitempty" toml:"data_types,omitempty"`
	Diagrams   []Diagram `json:"diagrams,omitempty" yaml:"diagrams,omitempty" toml:"diagrams,omitempty"`
}

// Class element types.
const (
	TypeClass            = "uml:Class"
	TypeAssociationClass = "uml:AssociationClass"
	TypeDataType         = "uml:DataType"
)

// Class is a plain class, an association class or a data type.
type Class struct {
	XMIID        string        `json:"xmi_id" yaml:"xmi_id" toml:"xmi_id"`
	Name         string        `json:"name" yaml:"name" toml:"name"`
	Type         string        `json:"type" yaml:"type" toml:"type"`
	IsAbstract   bool          `json:"is_abstract" yaml:"is_abstract" toml:"is_abstract"`
	Definition   string        `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
	Stereotype   string        `json:"stereotype,omitempty" yaml:"stereotype,omitempty" toml:"stereotype,omitempty"`
	Attributes   []Attribute   `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Associations []Association `json:"associations,omitempty" yaml:"associations,omitempty" toml:"associations,omitempty"`
	Operations   []Operation   `json:"operations,omitempty" yaml:"operations,omitempty" toml:"operations,omitempty"`
	Constraints  []Constraint  `json:"constraints,omitempty" yaml:"constraints,omitempty" toml:"constraints,omitempty"`
}

// IsDataType reports whether the class was declared as uml:DataType.
func (c *Class) IsDataType() bool { return c.Type == TypeDataType }

// Attribute returns the attribute with the given name, or nil.
func (c *Class) Attribute(name string) *Attribute {
	for i := range c.Attributes {
		if c.Attributes[i].Name == name {
			return &c.Attributes[i]
		}
	}
	return nil
}

// Attribute is an owned attribute that is not an association end.
type Attribute struct {
	XMIID string `json:"xmi_id" yaml:"xmi_id" toml:"xmi_id"`
	Name  string `json:"name" yaml:"name" toml:"name"`
	// Type is the resolved type name, or the raw type identifier when the
	// identifier does not name any element.
	Type        string      `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	TypeXMIID   string      `json:"type_xmi_id,omitempty" yaml:"type_xmi_id,omitempty" toml:"type_xmi_id,omitempty"`
	IsDerived   bool        `json:"is_derived" yaml:"is_derived" toml:"is_derived"`
	Cardinality Cardinality `json:"cardinality" yaml:"cardinality" toml:"cardinality"`
	Definition  string      `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
}

// Enum is a UML enumeration.
type Enum struct {
	XMIID      string        `json:"xmi_id" yaml:"xmi_id" toml:"xmi_id"`
	Name       string        `json:"name" yaml:"name" toml:"name"`
	Values     []EnumLiteral `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Definition string        `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
	Stereotype string        `json:"stereotype,omitempty" yaml:"stereotype,omitempty" toml:"stereotype,omitempty"`
}

// EnumLiteral is one value of an enumeration.
type EnumLiteral struct {
	XMIID      string `json:"xmi_id" yaml:"xmi_id" toml:"xmi_id"`
	Name       string `json:"name" yaml:"name" toml:"name"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
}

// Operation is an owned operation that is not an association end.
type Operation struct {
	XMIID           string `json:"xmi_id" yaml:"xmi_id" toml:"xmi_id"`
	Name            string `json:"name" yaml:"name" toml:"name"`
	ReturnTypeXMIID string `json:"return_type_xmi_id,omitempty" yaml:"return_type_xmi_id,omitempty" toml:"return_type_xmi_id,omitempty"`
	Definition      string `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
}

// Constraint is a tool constraint attached to a class.
type Constraint struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	Type   string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Weight string `json:"weight,omitempty" yaml:"weight,omitempty" toml:"weight,omitempty"`
	Status string `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
}

// Diagram is a diagram owned by a package.
type Diagram struct {
	XMIID        string `json:"xmi_id" yaml:"xmi_id" toml:"xmi_id"`
	Name         string `json:"name" yaml:"name" toml:"name"`
	Definition   string `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
	PackageXMIID string `json:"package_xmi_id" yaml:"package_xmi_id" toml:"package_xmi_id"`
}
