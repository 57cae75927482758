package output

import (
	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/matching"
)

// CheckSummary counts the findings of a check.
type CheckSummary struct {
	Diagrams int `json:"diagrams"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Hints    int `json:"hints"`
}

// Add counts one finding.
func (s *CheckSummary) Add(sev core.Severity) {
	s.Total++
	switch sev {
	case core.SeverityError:
		s.Errors++
	case core.SeverityWarning:
		s.Warnings++
	case core.SeverityInfo:
		s.Info++
	case core.SeverityHint:
		s.Hints++
	}
}

// DiagramResult is the JSON form of one diagram run.
type DiagramResult struct {
	Path     string                                         `json:"path"`
	Diagram  string                                         `json:"diagram,omitempty"`
	RunID    string                                         `json:"run_id,omitempty"`
	Error    string                                         `json:"error,omitempty"`
	Selected []core.ModelType                               `json:"selected"`
	Links    map[core.ModelType][]matching.Link             `json:"links,omitempty"`
	Findings map[core.ModelType][]consistency.Inconsistency `json:"findings"`
}

// CheckOutput is the JSON document written by the check command.
type CheckOutput struct {
	Summary  CheckSummary    `json:"summary"`
	Diagrams []DiagramResult `json:"diagrams"`
}
