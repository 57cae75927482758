package rules

import (
	"fmt"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
)

func init() {
	consistency.Register(consistency.RuleDef{
		ID:          "PK01",
		Name:        "packages-must-contain-all-subpackages-if-one-is-empty",
		Group:       "structure",
		Description: "A package box holding an empty subpackage box must hold every subpackage",
		Severity:    core.SeverityWarning,
		ModelTypes:  []core.ModelType{core.ModelTypeCode},
		Rationale:   "An empty subpackage box announces a listing of the package's subpackages; a partial listing misleads.",
		New:         newSubpackages,
	})
}

type subpackages struct {
	consistency.BaseRule
}

func newSubpackages(def consistency.RuleDef) consistency.Rule {
	return &subpackages{BaseRule: consistency.NewBaseRule(def)}
}

func (r *subpackages) Check(box *core.Box, entity core.Entity) []consistency.Inconsistency {
	if box == nil || entity == nil {
		return nil
	}
	pkg, ok := entity.(*core.CodeItem)
	if !ok {
		panic(core.NewUnsupportedTypeError("entity", fmt.Sprintf("%T in code rule", entity)))
	}
	if !pkg.IsPackage() {
		return nil
	}

	subs := r.subpackagesOf(pkg.ID)
	if len(subs) == 0 || !r.listsSubpackage(box, subs) {
		return nil
	}

	var out []consistency.Inconsistency
	for _, sub := range subs {
		subBox, ok := r.Ctx.Linkage.BoxFor(sub)
		if ok && r.Ctx.Diagram.Contains(box.ID, subBox) {
			continue
		}
		out = append(out, consistency.Inconsistency{
			Kind:     consistency.KindMissingSubpackage,
			Reason:   fmt.Sprintf("package %q lists subpackages but %q is not drawn inside it", pkg.Name, sub),
			BoxID:    box.ID,
			EntityID: sub,
		})
	}
	return out
}

func (r *subpackages) subpackagesOf(id string) []string {
	var subs []string
	for _, child := range r.Ctx.Model.Children(id) {
		e, ok := r.Ctx.Model.Entity(child)
		if !ok {
			continue
		}
		if c, ok := e.(*core.CodeItem); ok && c.IsPackage() {
			subs = append(subs, child)
		}
	}
	return subs
}

// listsSubpackage reports whether box directly holds an empty box linked to
// one of subs.
func (r *subpackages) listsSubpackage(box *core.Box, subs []string) bool {
	for _, child := range r.Ctx.Diagram.Children(box.ID) {
		if len(r.Ctx.Diagram.Children(child.ID)) > 0 {
			continue
		}
		e, ok := r.Ctx.Linkage.EntityFor(child.ID)
		if !ok {
			continue
		}
		for _, sub := range subs {
			if e == sub {
				return true
			}
		}
	}
	return false
}
