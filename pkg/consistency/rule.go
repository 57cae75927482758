package consistency

import (
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/matching"
)

// Context is what a rule sees during one evaluation.
type Context struct {
	ModelType core.ModelType
	Diagram   *core.Diagram
	Model     *core.Model
	Linkage   *matching.Linkage
	// Options holds per-rule options keyed by rule ID.
	Options map[string]map[string]any
	Logger  *slog.Logger
}

// Rule checks one box, one entity or one linked pair.
// Check receives a nil box or a nil entity for unmatched elements, never both.
type Rule interface {
	ID() string
	Name() string
	Description() string
	Severity() core.Severity
	Setup(ctx *Context)
	Check(box *core.Box, entity core.Entity) []Inconsistency
	TearDown()
}

// BaseRule carries the definition and the current context of a rule.
// Rules embed it and implement Check.
type BaseRule struct {
	def RuleDef
	Ctx *Context
}

// NewBaseRule creates a BaseRule for def.
func NewBaseRule(def RuleDef) BaseRule {
	return BaseRule{def: def}
}

func (b *BaseRule) ID() string              { return b.def.ID }
func (b *BaseRule) Name() string            { return b.def.Name }
func (b *BaseRule) Description() string     { return b.def.Description }
func (b *BaseRule) Severity() core.Severity { return b.def.Severity }

// Setup stores the evaluation context.
func (b *BaseRule) Setup(ctx *Context) {
	b.Ctx = ctx
}

// TearDown drops the evaluation context.
func (b *BaseRule) TearDown() {
	b.Ctx = nil
}

// DecodeOptions decodes the options of the current rule into out.
// Missing options leave out untouched.
func (b *BaseRule) DecodeOptions(out any) error {
	if b.Ctx == nil {
		return nil
	}
	return DecodeOptions(b.Ctx.Options[b.def.ID], out)
}

// LoadOptions decodes the options of the current rule into out. Invalid
// options are logged and leave out at its defaults.
func (b *BaseRule) LoadOptions(out any) {
	if err := b.DecodeOptions(out); err != nil && b.Ctx.Logger != nil {
		b.Ctx.Logger.Warn("ignoring invalid rule options",
			slog.String("rule", b.def.ID),
			slog.String("error", err.Error()))
	}
}

// DecodeOptions decodes a raw option map into out, accepting weakly typed
// input such as "true" for a bool.
func DecodeOptions(opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to create option decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("failed to decode rule options: %w", err)
	}
	return nil
}
