package rules

import (
	"fmt"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
)

func init() {
	consistency.Register(consistency.RuleDef{
		ID:          "CN01",
		Name:        "entities-connected-exactly-to-dependencies",
		Group:       "structure",
		Description: "Lines between linked boxes must match the dependencies of their entities",
		Severity:    core.SeverityError,
		Rationale:   "Lines are read as dependencies; a missing or extra line misstates the coupling of the system.",
		ConfigKeys:  []string{"ignore_self_lines"},
		New:         newConnectedDependencies,
	})
}

type connectedDependencies struct {
	consistency.BaseRule
	opts struct {
		IgnoreSelfLines bool `mapstructure:"ignore_self_lines"`
	}
}

func newConnectedDependencies(def consistency.RuleDef) consistency.Rule {
	return &connectedDependencies{BaseRule: consistency.NewBaseRule(def)}
}

func (r *connectedDependencies) Setup(ctx *consistency.Context) {
	r.BaseRule.Setup(ctx)
	r.LoadOptions(&r.opts)
}

// Check compares the lines leaving a linked box with the dependencies of its
// entity. Lines to unlinked boxes and dependencies on unlinked entities are
// ignored: there is nothing to compare them to.
func (r *connectedDependencies) Check(box *core.Box, entity core.Entity) []consistency.Inconsistency {
	if box == nil || entity == nil {
		return nil
	}
	d, m, links := r.Ctx.Diagram, r.Ctx.Model, r.Ctx.Linkage
	var out []consistency.Inconsistency

	seen := make(map[string]bool)
	for _, targetBox := range d.Outgoing(box.ID) {
		if seen[targetBox] {
			continue
		}
		seen[targetBox] = true
		if r.opts.IgnoreSelfLines && targetBox == box.ID {
			continue
		}
		targetEntity, ok := links.EntityFor(targetBox)
		if !ok || m.DependsOn(entity.EntityID(), targetEntity) {
			continue
		}
		out = append(out, consistency.Inconsistency{
			Kind:     consistency.KindUnexpectedLine,
			Reason:   fmt.Sprintf("line from %q to %q has no matching dependency", box.ID, targetBox),
			BoxID:    box.ID,
			EntityID: entity.EntityID(),
			Line: &consistency.Line{
				FromBox:    box.ID,
				ToBox:      targetBox,
				FromEntity: entity.EntityID(),
				ToEntity:   targetEntity,
			},
		})
	}

	for _, dep := range m.Dependencies(entity.EntityID()) {
		if r.opts.IgnoreSelfLines && dep == entity.EntityID() {
			continue
		}
		targetBox, ok := links.BoxFor(dep)
		if !ok || d.Connected(box.ID, targetBox) {
			continue
		}
		out = append(out, consistency.Inconsistency{
			Kind:     consistency.KindMissingLine,
			Reason:   fmt.Sprintf("dependency from %q to %q is not drawn", entity.EntityID(), dep),
			BoxID:    box.ID,
			EntityID: entity.EntityID(),
			Line: &consistency.Line{
				FromBox:    box.ID,
				ToBox:      targetBox,
				FromEntity: entity.EntityID(),
				ToEntity:   dep,
			},
		})
	}
	return out
}
