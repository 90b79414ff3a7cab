package uml

import (
	"fmt"
	"slices"
	"strings"
)

// Severity levels for diagnostics. Lower values are more severe.
type Severity int

const (
	SeverityFatal   Severity = 0 // Cannot continue loading
	SeveritySevere  Severity = 1 // Model changed to continue, must correct
	SeverityError   Severity = 2 // Able to continue, should correct
	SeverityMinor   Severity = 3 // Minor issue, should correct
	SeverityStyle   Severity = 4 // Style recommendation
	SeverityWarning Severity = 5 // Might be correct under some circumstances
	SeverityInfo    Severity = 6 // Informational notice
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityStyle:
		return "style"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity maps a severity name to its value.
func ParseSeverity(name string) (Severity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s := SeverityFatal; s <= SeverityInfo; s++ {
		if s.String() == n {
			return s, nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", name)
}

// StrictnessLevel defines preset strictness configurations.
type StrictnessLevel int

const (
	StrictnessStrict     StrictnessLevel = 0 // Report everything
	StrictnessNormal     StrictnessLevel = 3 // Default, report minor and above
	StrictnessPermissive StrictnessLevel = 5 // Report warnings and above
	StrictnessSilent     StrictnessLevel = 6 // Report nothing
)

func (l StrictnessLevel) String() string {
	switch l {
	case StrictnessStrict:
		return "strict"
	case StrictnessNormal:
		return "normal"
	case StrictnessPermissive:
		return "permissive"
	case StrictnessSilent:
		return "silent"
	default:
		return fmt.Sprintf("StrictnessLevel(%d)", l)
	}
}

// ParseStrictness maps a strictness name to its level.
func ParseStrictness(name string) (StrictnessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return StrictnessStrict, nil
	case "", "normal":
		return StrictnessNormal, nil
	case "permissive":
		return StrictnessPermissive, nil
	case "silent":
		return StrictnessSilent, nil
	default:
		return StrictnessNormal, fmt.Errorf("unknown strictness %q", name)
	}
}

// Diagnostic represents an issue found while loading or resolving a document.
// Diagnostics never change the assembled graph; they only explain it.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity" toml:"severity"`
	Code     string   `json:"code" yaml:"code" toml:"code"`
	Message  string   `json:"message" yaml:"message" toml:"message"`
	XMIID    string   `json:"xmi_id,omitempty" yaml:"xmi_id,omitempty" toml:"xmi_id,omitempty"`
}

// String returns "[severity] id: message", omitting the id when empty.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteString("] ")
	if d.XMIID != "" {
		b.WriteString(d.XMIID)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig struct {
	// Level sets the base strictness level.
	// Diagnostics with severity > Level are suppressed.
	Level StrictnessLevel

	// FailAt sets the severity threshold for failure.
	// If any reported diagnostic has severity <= FailAt, loading fails.
	FailAt Severity

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "reference-*").
	Ignore []string
}

// DefaultConfig returns the default diagnostic configuration (Normal strictness).
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessNormal,
		FailAt: SeveritySevere,
	}
}

// StrictConfig returns a configuration that reports every diagnostic.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessStrict,
		FailAt: SeveritySevere,
	}
}

// PermissiveConfig returns a configuration for exports known to carry
// tool-version-mismatched cross references.
//
// Ignored codes:
//   - reference-miss: links to elements outside the exported package
//   - link-kind-ignored: dependency and realisation links are common noise
func PermissiveConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessPermissive,
		FailAt: SeverityFatal,
		Ignore: []string{
			"reference-miss",
			"link-kind-ignored",
		},
	}
}

// ShouldReport returns true if a diagnostic with the given code and severity
// should be reported under this configuration.
//
// Lower severity numbers are more severe (Fatal=0, Info=6).
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return matchGlob(pattern, code)
	}) {
		return false
	}

	if override, ok := c.Overrides[code]; ok {
		sev = override
	}

	if c.Level >= StrictnessSilent {
		return false
	}

	if c.Level == StrictnessStrict {
		return true
	}

	return int(sev) <= int(c.Level)
}

// Severity returns the effective severity for code after overrides.
func (c DiagnosticConfig) Severity(code string, sev Severity) Severity {
	if override, ok := c.Overrides[code]; ok {
		return override
	}
	return sev
}

// ShouldFail returns true if a diagnostic with the given severity should
// cause loading to fail.
func (c DiagnosticConfig) ShouldFail(sev Severity) bool {
	return sev <= c.FailAt
}

// matchGlob performs simple glob matching with * wildcard.
func matchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}
