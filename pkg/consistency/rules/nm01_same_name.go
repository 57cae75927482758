package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
)

func init() {
	consistency.Register(consistency.RuleDef{
		ID:          "NM01",
		Name:        "same-name-for-linked-elements",
		Group:       "naming",
		Description: "Linked box and entity must carry the same name",
		Severity:    core.SeverityWarning,
		Rationale:   "A diagram that renames its elements cannot be searched for the code it describes.",
		New:         newSameName,
	})
}

type sameName struct {
	consistency.BaseRule
}

func newSameName(def consistency.RuleDef) consistency.Rule {
	return &sameName{BaseRule: consistency.NewBaseRule(def)}
}

// Check flags linked pairs whose trimmed names differ.
func (r *sameName) Check(box *core.Box, entity core.Entity) []consistency.Inconsistency {
	if box == nil || entity == nil {
		return nil
	}
	boxName := strings.TrimSpace(box.Text)
	entityName := strings.TrimSpace(entity.EntityName())
	if boxName == entityName {
		return nil
	}
	return []consistency.Inconsistency{{
		Kind:     consistency.KindNameMismatch,
		Reason:   fmt.Sprintf("box %q is linked to %q but is named differently", boxName, entityName),
		BoxID:    box.ID,
		EntityID: entity.EntityID(),
	}}
}
