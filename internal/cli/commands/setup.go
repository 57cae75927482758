package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/sketchlink/internal/cli/output"
	"github.com/leapstack-labs/sketchlink/internal/config"
	"github.com/spf13/cobra"
)

// CommandContext holds shared dependencies for command execution.
type CommandContext struct {
	Cfg        *config.Config
	ConfigFile string
	Logger     *slog.Logger
	Renderer   *output.Renderer
}

// commandContextKey is used to store the CommandContext in a context.
type commandContextKey struct{}

// WithCommandContext returns a copy of ctx carrying cc.
func WithCommandContext(ctx context.Context, cc *CommandContext) context.Context {
	return context.WithValue(ctx, commandContextKey{}, cc)
}

// NewCommandContext returns the CommandContext set up by the root command.
// Commands executed on their own load the configuration from their flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if cc, ok := ctx.Value(commandContextKey{}).(*CommandContext); ok {
			return cc, nil
		}
	}

	loaded, err := config.Load("", cmd.Flags())
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:        loaded.Config,
		ConfigFile: loaded.File,
		Logger:     slog.New(slog.DiscardHandler),
		Renderer:   output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(loaded.Output)),
	}, nil
}

// rendererFor returns the renderer to use, honouring a per-command --format.
func rendererFor(cmd *cobra.Command, cc *CommandContext, format string) *output.Renderer {
	if format != "" {
		return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
	}
	return cc.Renderer
}
