package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
)

func init() {
	consistency.Register(consistency.RuleDef{
		ID:          "LK01",
		Name:        "all-boxes-must-be-linked",
		Group:       "linking",
		Description: "Every box must be linked to a model entity",
		Severity:    core.SeverityError,
		Rationale:   "A box without a counterpart describes something the system does not contain.",
		ConfigKeys:  []string{"ignore_empty"},
		New:         newAllBoxesLinked,
	})
}

type allBoxesLinked struct {
	consistency.BaseRule
	opts struct {
		// IgnoreEmpty skips boxes without text, which are usually plain frames.
		IgnoreEmpty bool `mapstructure:"ignore_empty"`
	}
}

func newAllBoxesLinked(def consistency.RuleDef) consistency.Rule {
	return &allBoxesLinked{BaseRule: consistency.NewBaseRule(def)}
}

func (r *allBoxesLinked) Setup(ctx *consistency.Context) {
	r.BaseRule.Setup(ctx)
	r.LoadOptions(&r.opts)
}

// Check flags boxes that reach the box-only phase.
func (r *allBoxesLinked) Check(box *core.Box, entity core.Entity) []consistency.Inconsistency {
	if box == nil || entity != nil {
		return nil
	}
	if r.opts.IgnoreEmpty && strings.TrimSpace(box.Text) == "" {
		return nil
	}
	return []consistency.Inconsistency{{
		Kind:   consistency.KindUnlinkedBox,
		Reason: fmt.Sprintf("box %q is not linked to any model element", box.Text),
		BoxID:  box.ID,
	}}
}
