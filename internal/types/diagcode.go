package types

// Diagnostic codes emitted by the loader, dialect, and resolver phases.
// Centralizing these prevents silent breakage from typos in string literals.

// Loader diagnostic codes.
const (
	DiagCharsetFallback = "charset-fallback"
	DiagDialectGuessed  = "dialect-guessed"
)

// Dialect diagnostic codes.
const (
	DiagExtensionMissing   = "extension-missing"
	DiagDuplicateElement   = "duplicate-element"
	DiagDuplicateConnector = "duplicate-connector"
)

// Resolver diagnostic codes.
const (
	DiagDuplicateID         = "duplicate-id"
	DiagElementMissing      = "element-missing"
	DiagReferenceMiss       = "reference-miss"
	DiagConnectorMissing    = "connector-missing"
	DiagCardinalityUnknown  = "cardinality-unknown"
	DiagLinkKindIgnored     = "link-kind-ignored"
	DiagAggregationUnnamed  = "aggregation-unnamed"
	DiagAssociationMerged   = "association-merged"
	DiagTypeUnresolved      = "type-unresolved"
	DiagGeneralizationCycle = "generalization-cycle"
)

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Loader
		{Code: DiagCharsetFallback, Phase: "loader"},
		{Code: DiagDialectGuessed, Phase: "loader"},
		// Dialect
		{Code: DiagExtensionMissing, Phase: "dialect"},
		{Code: DiagDuplicateElement, Phase: "dialect"},
		{Code: DiagDuplicateConnector, Phase: "dialect"},
		// Resolver
		{Code: DiagDuplicateID, Phase: "resolver"},
		{Code: DiagElementMissing, Phase: "resolver"},
		{Code: DiagReferenceMiss, Phase: "resolver"},
		{Code: DiagConnectorMissing, Phase: "resolver"},
		{Code: DiagCardinalityUnknown, Phase: "resolver"},
		{Code: DiagLinkKindIgnored, Phase: "resolver"},
		{Code: DiagAggregationUnnamed, Phase: "resolver"},
		{Code: DiagAssociationMerged, Phase: "resolver"},
		{Code: DiagTypeUnresolved, Phase: "resolver"},
		// Lint
		{Code: DiagGeneralizationCycle, Phase: "lint"},
	}
}

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}
