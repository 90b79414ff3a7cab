// Package goxmi loads Enterprise Architect XMI exports into a UML
// document graph of packages, classes, enumerations, data types,
// associations and diagrams.
package goxmi

import "github.com/umlkit/goxmi/uml"

// Type aliases for the public API. All types come from the uml subpackage.

// Document is the root of an assembled model.
type Document = uml.Document

// Package is a UML package.
type Package = uml.Package

// Class is a UML class, association class or data type.
type Class = uml.Class

// Attribute is an owned property that is not an association end.
type Attribute = uml.Attribute

// Association is a relationship as seen from its owning class.
type Association = uml.Association

// AssociationKind classifies an association.
type AssociationKind = uml.AssociationKind

// Cardinality is a normalized multiplicity.
type Cardinality = uml.Cardinality

// Optionality is the lower bound of a cardinality.
type Optionality = uml.Optionality

// Enum is a UML enumeration.
type Enum = uml.Enum

// EnumLiteral is an enumeration value.
type EnumLiteral = uml.EnumLiteral

// Operation is an owned operation.
type Operation = uml.Operation

// Constraint is a constraint attached to a class.
type Constraint = uml.Constraint

// Diagram is a diagram owned by a package.
type Diagram = uml.Diagram

// Diagnostic is a recoverable problem found while loading.
type Diagnostic = uml.Diagnostic

// Severity for diagnostics.
type Severity = uml.Severity

// StrictnessLevel is a diagnostic reporting preset.
type StrictnessLevel = uml.StrictnessLevel

// DiagnosticConfig controls diagnostic reporting and failure.
type DiagnosticConfig = uml.DiagnosticConfig
