package uml

import "iter"

// Document is the root of an assembled model.
type Document struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	// Source is the path or name the document was loaded from.
	Source      string       `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Dialect     string       `json:"dialect,omitempty" yaml:"dialect,omitempty" toml:"dialect,omitempty"`
	Packages    []Package    `json:"packages" yaml:"packages" toml:"packages"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" toml:"diagnostics,omitempty"`
}

// AllPackages yields every package in pre-order, parents before children.
func (d *Document) AllPackages() iter.Seq[*Package] {
	return func(yield func(*Package) bool) {
		for i := range d.Packages {
			if !d.Packages[i].yieldAll(yield) {
				return
			}
		}
	}
}

func (p *Package) yieldAll(yield func(*Package) bool) bool {
	if !yield(p) {
		return false
	}
	for i := range p.Packages {
		if !p.Packages[i].yieldAll(yield) {
			return false
		}
	}
	return true
}

// AllClasses yields every class and data type, package by package in
// pre-order. Within a package, classes come before data types.
func (d *Document) AllClasses() iter.Seq[*Class] {
	return func(yield func(*Class) bool) {
		for p := range d.AllPackages() {
			for i := range p.Classes {
				if !yield(&p.Classes[i]) {
					return
				}
			}
			for i := range p.DataTypes {
				if !yield(&p.DataTypes[i]) {
					return
				}
			}
		}
	}
}

// AllEnums yields every enumeration, package by package in pre-order.
func (d *Document) AllEnums() iter.Seq[*Enum] {
	return func(yield func(*Enum) bool) {
		for p := range d.AllPackages() {
			for i := range p.Enums {
				if !yield(&p.Enums[i]) {
					return
				}
			}
		}
	}
}

// FindClass returns the first class or data type with the given name, or nil.
func (d *Document) FindClass(name string) *Class {
	for c := range d.AllClasses() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ClassByID returns the class or data type with the given identifier, or nil.
func (d *Document) ClassByID(id string) *Class {
	for c := range d.AllClasses() {
		if c.XMIID == id {
			return c
		}
	}
	return nil
}

// FindPackage returns the first package with the given name, or nil.
func (d *Document) FindPackage(name string) *Package {
	for p := range d.AllPackages() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PackageByID returns the package with the given identifier, or nil.
func (d *Document) PackageByID(id string) *Package {
	for p := range d.AllPackages() {
		if p.XMIID == id {
			return p
		}
	}
	return nil
}

// FindEnum returns the first enumeration with the given name, or nil.
func (d *Document) FindEnum(name string) *Enum {
	for e := range d.AllEnums() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// HasErrors reports whether any diagnostic is at error severity or worse.
func (d *Document) HasErrors() bool {
	for _, diag := range d.Diagnostics {
		if diag.Severity <= SeverityError {
			return true
		}
	}
	return false
}

// Stats holds element counts for a document.
type Stats struct {
	Packages     int
	Classes      int
	DataTypes    int
	Enums        int
	Attributes   int
	Associations int
	Operations   int
	Diagrams     int
}

// Stats counts the elements of the document.
func (d *Document) Stats() Stats {
	var s Stats
	for p := range d.AllPackages() {
		s.Packages++
		s.Classes += len(p.Classes)
		s.DataTypes += len(p.DataTypes)
		s.Enums += len(p.Enums)
		s.Diagrams += len(p.Diagrams)
	}
	for c := range d.AllClasses() {
		s.Attributes += len(c.Attributes)
		s.Associations += len(c.Associations)
		s.Operations += len(c.Operations)
	}
	return s
}
