package rules

import (
	"fmt"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
)

func init() {
	consistency.Register(consistency.RuleDef{
		ID:          "RP01",
		Name:        "all-model-entities-must-be-represented",
		Group:       "linking",
		Description: "Every component of the architecture model must appear in the diagram",
		Severity:    core.SeverityWarning,
		ModelTypes:  []core.ModelType{core.ModelTypeArchitecture},
		New:         newEntitiesRepresented,
	})
}

type entitiesRepresented struct {
	consistency.BaseRule
}

func newEntitiesRepresented(def consistency.RuleDef) consistency.Rule {
	return &entitiesRepresented{BaseRule: consistency.NewBaseRule(def)}
}

// Check flags components that reach the entity-only phase. Interfaces are
// commonly left out of diagrams and are not reported.
func (r *entitiesRepresented) Check(box *core.Box, entity core.Entity) []consistency.Inconsistency {
	if box != nil || entity == nil {
		return nil
	}
	item, ok := entity.(*core.ArchitectureItem)
	if !ok {
		panic(core.NewUnsupportedTypeError("entity", fmt.Sprintf("%T in architecture rule", entity)))
	}
	if !item.IsComponent() {
		return nil
	}
	return []consistency.Inconsistency{{
		Kind:     consistency.KindUnrepresentedEntity,
		Reason:   fmt.Sprintf("component %q is not represented in the diagram", item.Name),
		EntityID: item.ID,
	}}
}
