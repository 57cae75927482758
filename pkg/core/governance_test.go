//go:build governance

package core_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// =============================================================================
// LAYERING TEST - Libraries never depend on application wiring
// =============================================================================

// TestGovernance_PkgLayering loads the full dependency graph and verifies that
// no package under pkg/ reaches internal/ or cmd/, directly or transitively.
func TestGovernance_PkgLayering(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	forbidden := []string{modulePath + "/internal/", modulePath + "/cmd/"}

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for path := range p.Imports {
			for _, prefix := range forbidden {
				if strings.HasPrefix(path, prefix) {
					t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.\n"+
						"   Fix: move the shared code into pkg/ or invert the dependency.",
						strings.TrimPrefix(p.PkgPath, modulePath+"/"), path)
				}
			}
		}
	})
}

// =============================================================================
// ENTRY POINT TEST - The rule registry is only populated through pkg/consistency/rules
// =============================================================================

// TestGovernance_RulesImportedByWiring ensures every consumer of the rule
// engine that runs checks also links in the rule set, so the registry is
// never empty at run time.
func TestGovernance_RulesImportedByWiring(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/internal/pipeline", modulePath+"/internal/cli/commands")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		if _, ok := p.Imports[modulePath+"/pkg/consistency/rules"]; !ok {
			t.Errorf("WIRING VIOLATION: '%s' does not import pkg/consistency/rules",
				strings.TrimPrefix(p.PkgPath, modulePath+"/"))
		}
	}
}
