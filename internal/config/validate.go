package config

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/flooding"
	"github.com/leapstack-labs/sketchlink/pkg/similarity"
)

// Validate checks every value and returns the joined ConfigErrors.
func (c *Config) Validate() error {
	var errs []error
	unit := func(key string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, core.NewConfigError(key, "must be within [0,1], got %v", v))
		}
	}

	unit("selection.threshold_architecture", c.Selection.ThresholdArchitecture)
	unit("selection.threshold_code", c.Selection.ThresholdCode)
	unit("selection.match_threshold", c.Selection.MatchThreshold)
	unit("selection.match_delta", c.Selection.MatchDelta)
	unit("similarity.min_weight", c.Similarity.MinWeight)
	unit("matching.text_similarity_threshold", c.Matching.TextSimilarityThreshold)
	unit("filter.similarity_threshold", c.Filter.SimilarityThreshold)

	if _, err := similarity.ParseFunction(c.Selection.Function); err != nil {
		errs = append(errs, core.NewConfigError("selection.function", "unknown similarity function %q", c.Selection.Function))
	}
	if _, err := flooding.ParseFormula(c.Matching.Formula); err != nil {
		errs = append(errs, core.NewConfigError("matching.formula", "unknown fixpoint formula %q", c.Matching.Formula))
	}
	if c.Matching.Epsilon < 0 {
		errs = append(errs, core.NewConfigError("matching.epsilon", "must not be negative, got %v", c.Matching.Epsilon))
	}
	if c.Matching.MaxIterations < 0 {
		errs = append(errs, core.NewConfigError("matching.max_iterations", "must not be negative, got %d", c.Matching.MaxIterations))
	}
	for id, sev := range c.Rules.Severity {
		if _, ok := core.ParseSeverity(sev); !ok {
			errs = append(errs, core.NewConfigError("rules.severity."+id, "unknown severity %q", sev))
		}
	}
	switch c.Output {
	case "", "auto", "text", "markdown", "json":
	default:
		errs = append(errs, core.NewConfigError("output", "unknown output mode %q", c.Output))
	}

	return errors.Join(errs...)
}

// EngineConfig converts the rule settings into a consistency engine config.
func (c *Config) EngineConfig() *consistency.EngineConfig {
	ec := consistency.NewEngineConfig()
	for _, id := range c.Rules.Disabled {
		if id = strings.TrimSpace(id); id != "" {
			ec.DisabledRules[strings.ToUpper(id)] = true
		}
	}
	for id, sev := range c.Rules.Severity {
		if s, ok := core.ParseSeverity(sev); ok {
			ec.SeverityOverrides[strings.ToUpper(id)] = s
		}
	}
	for id, opts := range c.Rules.Options {
		ec.Options[strings.ToUpper(id)] = opts
	}
	return ec
}
