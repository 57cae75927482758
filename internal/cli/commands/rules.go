package commands

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sketchlink/internal/cli/output"
	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	_ "github.com/leapstack-labs/sketchlink/pkg/consistency/rules" // register consistency rules
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Type    string // Filter by model type: architecture, code
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available consistency rules",
		Long: `List all registered consistency rules with their documentation.

Rules are organized by group (linking, naming, structure). Some rules only
apply to one model type.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  sketchlink rules

  # Show details for a specific rule
  sketchlink rules CN01

  # List rules that apply to code models
  sketchlink rules --type code

  # List rules in the naming group
  sketchlink rules --group naming

  # Output as JSON
  sketchlink rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by model type: architecture, code")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func allRules() []core.RuleInfo {
	defs := consistency.GetAll()
	infos := make([]core.RuleInfo, len(defs))
	for i, d := range defs {
		infos[i] = d.Info()
	}
	return infos
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}

	rules, err := filterRulesByOptions(allRules(), opts)
	if err != nil {
		return err
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, opts.Verbose)
	default:
		listRulesText(r, rules, opts.Verbose)
	}
	return nil
}

func rulesRenderer(cmd *cobra.Command, opts *RulesOptions) (*output.Renderer, error) {
	if opts.Format != "" {
		return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format)), nil
	}
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, err
	}
	return cc.Renderer, nil
}

func filterRulesByOptions(rules []core.RuleInfo, opts *RulesOptions) ([]core.RuleInfo, error) {
	if opts.Group == "" && opts.Type == "" {
		return rules, nil
	}

	var modelType core.ModelType
	if opts.Type != "" {
		t, err := core.ParseModelType(opts.Type)
		if err != nil {
			return nil, err
		}
		modelType = t
	}

	var filtered []core.RuleInfo
	for _, r := range rules {
		if opts.Group != "" && r.Group != opts.Group {
			continue
		}
		if modelType != "" && len(r.ModelTypes) > 0 && !slices.Contains(r.ModelTypes, modelType) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}

	def, ok := consistency.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, &rule)
	default:
		showRuleText(r, &rule)
	}
	return nil
}

func modelTypesLabel(types []core.ModelType) string {
	if len(types) == 0 {
		return "all"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Consistency Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Bold.Render("  " + capitalizeFirst(currentGroup)))
		}

		r.Printf("    %s  %s - %s  %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			severityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
			styles.Muted.Render("["+modelTypesLabel(rule.ModelTypes)+"]"),
		)

		if verbose {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("        Why: " + truncateOneLine(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'sketchlink rules <rule-id>' for detailed documentation"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	r.Println("# Consistency Rules")
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = rule.Group
			r.Println("## " + capitalizeFirst(currentGroup))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`, %s)\n", rule.ID, rule.Name, rule.DefaultSeverity.String(), modelTypesLabel(rule.ModelTypes))
		if verbose {
			r.Println("  " + rule.Description)
			if rule.Rationale != "" {
				r.Println("  > " + rule.Rationale)
			}
		}
	}

	r.Println("")
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	if rules == nil {
		rules = []core.RuleInfo{}
	}
	return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	r.Printf("  %s: %s\n", styles.Bold.Render("Model types"), modelTypesLabel(rule.ModelTypes))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  rules.options.%s: %s\n", rule.ID, strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s` | **Model types:** %s\n\n",
		rule.Group, rule.DefaultSeverity.String(), modelTypesLabel(rule.ModelTypes))
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options under `rules.options.%s`: `%s`\n", rule.ID, strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}
}

func severityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
