package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/sketchlink/internal/cli/output"
	"github.com/leapstack-labs/sketchlink/internal/config"
	"github.com/leapstack-labs/sketchlink/internal/loader"
	"github.com/leapstack-labs/sketchlink/internal/pipeline"
	"github.com/leapstack-labs/sketchlink/internal/state"
	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/matching"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// ErrInconsistent is returned by check when any diagram has findings.
var ErrInconsistent = errors.New("inconsistencies found")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Models    []string // Model files
	SelectAll bool     // Evaluate every loaded model without running selection
	Watch     bool     // Re-run when an input file changes
	Links     bool     // Print the linkage next to the findings
	Format    string   // Output format
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <diagram>...",
		Short: "Check diagrams against architecture and code models",
		Long: `Link the boxes of each diagram to the entities of the given models and
report every inconsistency between them.

Each diagram runs through model selection, similarity flooding, the ordered
matching filter, the consistency rules and refinement. Diagrams are checked
concurrently; results are printed in argument order.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check one diagram against an architecture model
  sketchlink check overview.json --model architecture.yaml

  # Check several diagrams against both models
  sketchlink check diagrams/*.json -m architecture.yaml -m code.yaml

  # Skip selection and evaluate every model
  sketchlink check overview.json -m code.yaml --select-all

  # Re-run whenever a file changes
  sketchlink check overview.json -m architecture.yaml --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.Models) == 0 {
				return fmt.Errorf("at least one --model is required")
			}
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := rendererFor(cmd, cc, opts.Format)

			check := func(ctx context.Context) error {
				return runCheck(ctx, cc.Cfg, cc.Logger, r, args, opts)
			}
			if opts.Watch {
				return watchCheck(cmd.Context(), append(append([]string{}, args...), opts.Models...), check, r, cc.Logger)
			}
			return check(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Models, "model", "m", nil, "Model file (YAML or JSON); repeatable")
	cmd.Flags().BoolVar(&opts.SelectAll, "select-all", false, "Evaluate every loaded model type")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when a diagram or model changes")
	cmd.Flags().BoolVar(&opts.Links, "links", false, "Show the box to entity links")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	AddPipelineFlags(cmd.Flags())

	return cmd
}

// AddPipelineFlags registers the flags that override pipeline configuration.
func AddPipelineFlags(fs *pflag.FlagSet) {
	fs.String("function", config.DefaultFunction, "Selection similarity function: levenshtein, jaro_winkler, jaccard, adapted_jaccard")
	fs.Float64("threshold-arch", config.DefaultThresholdArchitecture, "Occurrence threshold for architecture models")
	fs.Float64("threshold-code", config.DefaultThresholdCode, "Occurrence threshold for code models")
	fs.Float64("match-threshold", config.DefaultMatchThreshold, "Minimum occurrence ratio to select a model type")
	fs.Float64("match-delta", config.DefaultMatchDelta, "Ratio distance to the best type that still gets selected")
	fs.Float64("min-weight", config.DefaultMinWeight, "Weight of a word found in every entity name")
	fs.Float64("epsilon", config.DefaultEpsilon, "Flooding convergence bound")
	fs.Int("max-iterations", config.DefaultMaxIterations, "Flooding iteration cap")
	fs.Float64("text-threshold", config.DefaultTextSimilarityThreshold, "Minimum text similarity of a linked pair")
	fs.String("formula", config.DefaultFormula, "Fixpoint formula: basic, a, b, c")
	fs.Float64("similarity-threshold", config.DefaultSimilarityThreshold, "Minimum flooded similarity of a linked pair")
	fs.Bool("skip-selection", false, "Skip model selection")
	fs.Bool("skip-matching", false, "Skip similarity flooding")
	fs.Bool("skip-filter", false, "Skip the matching filter")
	fs.Bool("skip-rules", false, "Skip the consistency rules")
	fs.Bool("skip-refine", false, "Skip refinement")
	fs.StringSlice("disable", nil, "Rule IDs to disable")
}

// diagramRun is the outcome of checking one diagram file.
type diagramRun struct {
	Path string
	Run  *state.Run
	Err  error
}

func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, r *output.Renderer, paths []string, opts *CheckOptions) error {
	models, err := loadModels(opts.Models)
	if err != nil {
		return err
	}

	p, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return err
	}

	runs, err := checkDiagrams(ctx, p, paths, models, opts.SelectAll, logger)
	if err != nil {
		return err
	}
	return renderCheck(r, runs, opts.Links)
}

func loadModels(paths []string) ([]*core.Model, error) {
	models := make([]*core.Model, 0, len(paths))
	for _, path := range paths {
		m, err := loader.LoadModel(path)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// checkDiagrams runs every diagram through its own pipeline run.
// A diagram that cannot be loaded is logged and reported, not run.
func checkDiagrams(ctx context.Context, p *pipeline.Pipeline, paths []string, models []*core.Model, selectAll bool, logger *slog.Logger) ([]diagramRun, error) {
	runs := make([]diagramRun, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			runs[i] = diagramRun{Path: path}

			d, err := loader.LoadDiagram(path)
			if err != nil {
				logger.Error("diagram not checked", slog.String("path", path), slog.String("error", err.Error()))
				runs[i].Err = err
				return nil
			}

			run := state.New(d, models...)
			if selectAll {
				run.SelectAll()
			}
			runs[i].Run = run
			if err := p.Run(gctx, run); err != nil {
				if gctx.Err() != nil {
					return err
				}
				logger.Error("diagram check failed", slog.String("path", path), slog.String("error", err.Error()))
				runs[i].Err = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func renderCheck(r *output.Renderer, runs []diagramRun, showLinks bool) error {
	summary := output.CheckSummary{Diagrams: len(runs)}
	for _, dr := range runs {
		if dr.Err != nil {
			summary.Failed++
			continue
		}
		for _, t := range dr.Run.ModelTypes() {
			for _, f := range dr.Run.Findings[t].Result() {
				summary.Add(f.Severity)
			}
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(checkJSON(runs, summary)); err != nil {
			return err
		}
	case output.ModeMarkdown:
		renderCheckMarkdown(r, runs, showLinks)
		renderCheckSummary(r, summary)
	default:
		renderCheckText(r, runs, showLinks)
		renderCheckSummary(r, summary)
	}

	var errs []error
	if summary.Failed > 0 {
		errs = append(errs, fmt.Errorf("%d of %d diagrams could not be checked", summary.Failed, summary.Diagrams))
	}
	if summary.Total > 0 {
		errs = append(errs, ErrInconsistent)
	}
	return errors.Join(errs...)
}

func checkJSON(runs []diagramRun, summary output.CheckSummary) output.CheckOutput {
	out := output.CheckOutput{Summary: summary, Diagrams: make([]output.DiagramResult, 0, len(runs))}
	for _, dr := range runs {
		res := output.DiagramResult{
			Path:     dr.Path,
			Selected: []core.ModelType{},
			Findings: map[core.ModelType][]consistency.Inconsistency{},
		}
		if dr.Err != nil {
			res.Error = dr.Err.Error()
		}
		if dr.Run != nil {
			res.Diagram = dr.Run.Diagram.ID
			res.RunID = dr.Run.ID.String()
			if dr.Run.Selection != nil && dr.Run.Selection.Selected != nil {
				res.Selected = dr.Run.Selection.Selected
			}
			for t, l := range dr.Run.Links {
				if res.Links == nil {
					res.Links = map[core.ModelType][]matching.Link{}
				}
				res.Links[t] = l.Links()
			}
			for t, f := range dr.Run.Findings {
				findings := f.Result()
				if findings == nil {
					findings = []consistency.Inconsistency{}
				}
				res.Findings[t] = findings
			}
		}
		out.Diagrams = append(out.Diagrams, res)
	}
	return out
}

func findingRows(findings []consistency.Inconsistency) [][]string {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{
			string(f.Kind),
			f.Severity.String(),
			orDash(f.RuleID),
			orDash(f.BoxID),
			orDash(f.EntityID),
			f.Reason,
		})
	}
	return rows
}

func linkRows(l *matching.Linkage) [][]string {
	links := l.Links()
	rows := make([][]string, 0, len(links))
	for _, link := range links {
		rows = append(rows, []string{link.BoxID, link.EntityID})
	}
	return rows
}

var findingHeader = []string{"Kind", "Severity", "Rule", "Box", "Entity", "Reason"}

func renderCheckText(r *output.Renderer, runs []diagramRun, showLinks bool) {
	styles := r.Styles()
	for _, dr := range runs {
		r.Println(styles.Path.Render(dr.Path))
		if dr.Err != nil {
			r.Println("  " + styles.Error.Render("error: "+dr.Err.Error()))
			r.Println("")
			continue
		}

		types := selectedTypes(dr.Run)
		if len(types) == 0 {
			r.Println(styles.Muted.Render("  no model type selected"))
			r.Println("")
			continue
		}
		for _, t := range types {
			r.Println(styles.Bold.Render("  " + capitalizeFirst(string(t))))
			if l, ok := dr.Run.Links[t]; ok && showLinks {
				r.Table([]string{"Box", "Entity"}, linkRows(l))
			}
			findings := dr.Run.Findings[t].Result()
			if len(findings) == 0 {
				r.Success("No inconsistencies")
				continue
			}
			r.Table(findingHeader, findingRows(findings))
		}
		r.Println("")
	}
}

func renderCheckMarkdown(r *output.Renderer, runs []diagramRun, showLinks bool) {
	for _, dr := range runs {
		r.Printf("## %s\n\n", dr.Path)
		if dr.Err != nil {
			r.Printf("**Error:** %s\n\n", dr.Err.Error())
			continue
		}

		types := selectedTypes(dr.Run)
		if len(types) == 0 {
			r.Println("No model type selected.")
			r.Println("")
			continue
		}
		for _, t := range types {
			r.Printf("### %s\n\n", capitalizeFirst(string(t)))
			if l, ok := dr.Run.Links[t]; ok && showLinks {
				r.Table([]string{"Box", "Entity"}, linkRows(l))
				r.Println("")
			}
			findings := dr.Run.Findings[t].Result()
			if len(findings) == 0 {
				r.Println("No inconsistencies.")
				r.Println("")
				continue
			}
			r.Table(findingHeader, findingRows(findings))
			r.Println("")
		}
	}
}

func renderCheckSummary(r *output.Renderer, s output.CheckSummary) {
	parts := fmt.Sprintf("%d inconsistencies", s.Total)
	if s.Errors > 0 {
		parts += fmt.Sprintf(", %d errors", s.Errors)
	}
	if s.Warnings > 0 {
		parts += fmt.Sprintf(", %d warnings", s.Warnings)
	}
	if s.Info > 0 {
		parts += fmt.Sprintf(", %d info", s.Info)
	}
	if s.Hints > 0 {
		parts += fmt.Sprintf(", %d hints", s.Hints)
	}
	r.Printf("Summary: %s in %d diagrams", parts, s.Diagrams)
	if s.Failed > 0 {
		r.Printf(" (%d failed)", s.Failed)
	}
	r.Println("")
}

// selectedTypes returns the model types a run produced results for, in
// evaluation order.
func selectedTypes(run *state.Run) []core.ModelType {
	var types []core.ModelType
	for _, t := range run.ModelTypes() {
		_, linked := run.Links[t]
		_, found := run.Findings[t]
		if run.Selection.IsSelected(t) || linked || found {
			types = append(types, t)
		}
	}
	return types
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
