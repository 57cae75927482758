package consistency

import (
	"log/slog"

	"github.com/leapstack-labs/sketchlink/pkg/core"
)

// EngineConfig holds configuration for the rule engine.
type EngineConfig struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// Options holds rule options keyed by rule ID
	Options map[string]map[string]any
}

// NewEngineConfig creates a default configuration.
func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		Options:           make(map[string]map[string]any),
	}
}

// Engine runs the registered consistency rules.
type Engine struct {
	config *EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new engine with optional configuration.
func NewEngine(config *EngineConfig, logger *slog.Logger) *Engine {
	if config == nil {
		config = NewEngineConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{config: config, logger: logger}
}

// Rules returns the enabled rules applicable to model type t.
func (e *Engine) Rules(t core.ModelType) []RuleDef {
	var rules []RuleDef
	for _, def := range RulesFor(t) {
		if e.config.DisabledRules[def.ID] {
			continue
		}
		rules = append(rules, def)
	}
	return rules
}

// Check evaluates every enabled rule applicable to ctx.ModelType.
func (e *Engine) Check(ctx *Context) []Inconsistency {
	defs := e.Rules(ctx.ModelType)
	rules := make([]Rule, 0, len(defs))
	for _, def := range defs {
		rules = append(rules, def.New(def))
	}
	return e.CheckRules(ctx, rules)
}

// CheckRules runs the three-phase sweep with the given rule instances:
// every linked pair, then every box no link consumed, then every entity no
// link consumed. Each box and each entity is checked exactly once.
func (e *Engine) CheckRules(ctx *Context, rules []Rule) []Inconsistency {
	if ctx.Options == nil {
		ctx.Options = e.config.Options
	}
	if ctx.Logger == nil {
		ctx.Logger = e.logger
	}
	for _, r := range rules {
		r.Setup(ctx)
	}
	defer func() {
		for _, r := range rules {
			r.TearDown()
		}
	}()

	var findings []Inconsistency
	run := func(box *core.Box, entity core.Entity) {
		for _, r := range rules {
			for _, f := range r.Check(box, entity) {
				f.RuleID = r.ID()
				f.Severity = e.severity(r.ID(), r.Severity())
				findings = append(findings, f)
			}
		}
	}

	boxDone := make(map[string]bool)
	entityDone := make(map[string]bool)

	if ctx.Linkage != nil {
		for _, link := range ctx.Linkage.Links() {
			box, ok := ctx.Diagram.Box(link.BoxID)
			if !ok {
				e.logger.Warn("linked box not in diagram", slog.String("box", link.BoxID))
				continue
			}
			entity, ok := ctx.Model.Entity(link.EntityID)
			if !ok {
				e.logger.Warn("linked entity not in model", slog.String("entity", link.EntityID))
				continue
			}
			boxDone[box.ID] = true
			entityDone[entity.EntityID()] = true
			run(box, entity)
		}
	}

	for _, box := range ctx.Diagram.Boxes {
		if boxDone[box.ID] {
			continue
		}
		boxDone[box.ID] = true
		run(box, nil)
	}

	for _, entity := range ctx.Model.Entities {
		if entityDone[entity.EntityID()] {
			continue
		}
		entityDone[entity.EntityID()] = true
		run(nil, entity)
	}

	e.logger.Debug("rules evaluated",
		slog.String("model_type", string(ctx.ModelType)),
		slog.Int("rules", len(rules)),
		slog.Int("findings", len(findings)))
	return findings
}

func (e *Engine) severity(ruleID string, defaultSev core.Severity) core.Severity {
	if sev, ok := e.config.SeverityOverrides[ruleID]; ok {
		return sev
	}
	return defaultSev
}

// Disable disables a rule by ID.
func (e *Engine) Disable(ruleID string) {
	if e.config.DisabledRules == nil {
		e.config.DisabledRules = make(map[string]bool)
	}
	e.config.DisabledRules[ruleID] = true
}

// SetSeverity overrides the severity of a rule.
func (e *Engine) SetSeverity(ruleID string, sev core.Severity) {
	if e.config.SeverityOverrides == nil {
		e.config.SeverityOverrides = make(map[string]core.Severity)
	}
	e.config.SeverityOverrides[ruleID] = sev
}
