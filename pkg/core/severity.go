package core

import "strings"

// Severity indicates the importance of an inconsistency.
type Severity int

// Severity levels for inconsistencies.
const (
	// SeverityError indicates the diagram contradicts the model.
	SeverityError Severity = iota
	// SeverityWarning indicates a likely drift that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a cosmetic difference.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return NewUnsupportedTypeError("severity", string(text))
	}
	*s = sev
	return nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// RuleInfo provides metadata about a consistency rule for documentation/tooling.
type RuleInfo struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Group           string      `json:"group"`
	Description     string      `json:"description"`
	DefaultSeverity Severity    `json:"default_severity"`
	ModelTypes      []ModelType `json:"model_types,omitempty"` // empty means every model type
	Rationale       string      `json:"rationale,omitempty"`
	ConfigKeys      []string    `json:"config_keys,omitempty"`
}
