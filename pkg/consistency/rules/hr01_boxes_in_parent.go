package rules

import (
	"fmt"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
)

func init() {
	consistency.Register(consistency.RuleDef{
		ID:          "HR01",
		Name:        "boxes-must-be-in-parent",
		Group:       "structure",
		Description: "A box nested in a linked box must link to an entity nested in that box's entity",
		Severity:    core.SeverityError,
		New:         newBoxesInParent,
	})
}

type boxesInParent struct {
	consistency.BaseRule
}

func newBoxesInParent(def consistency.RuleDef) consistency.Rule {
	return &boxesInParent{BaseRule: consistency.NewBaseRule(def)}
}

func (r *boxesInParent) Check(box *core.Box, entity core.Entity) []consistency.Inconsistency {
	if box == nil || entity == nil {
		return nil
	}
	parent, ok := r.Ctx.Diagram.Parent(box)
	if !ok {
		return nil
	}
	parentEntity, ok := r.Ctx.Linkage.EntityFor(parent.ID)
	if !ok || r.Ctx.Model.Contains(parentEntity, entity.EntityID()) {
		return nil
	}
	return []consistency.Inconsistency{{
		Kind:     consistency.KindWrongParent,
		Reason:   fmt.Sprintf("box %q is drawn inside %q but %q is not part of %q", box.ID, parent.ID, entity.EntityID(), parentEntity),
		BoxID:    box.ID,
		EntityID: entity.EntityID(),
	}}
}
