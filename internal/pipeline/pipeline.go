// Package pipeline sequences the stages of a diagram run.
//
// Stages run synchronously in a fixed order: selection, matching, filter,
// rules, refine. Each reads the run state left by its predecessors; a stage
// whose inputs are missing logs the problem and leaves the state untouched,
// and later stages work with whatever state exists.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sketchlink/internal/config"
	"github.com/leapstack-labs/sketchlink/internal/selection"
	"github.com/leapstack-labs/sketchlink/internal/state"
	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/flooding"
	"github.com/leapstack-labs/sketchlink/pkg/matching"
	"github.com/leapstack-labs/sketchlink/pkg/similarity"
)

// Stage is one step of the pipeline.
type Stage interface {
	Name() string
	// Skipped reports whether the stage is disabled by configuration.
	Skipped() bool
	// Run updates r. A MissingPreconditionError means r was not modified.
	Run(r *state.Run, logger *slog.Logger) error
}

// Pipeline runs stages in order.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// New creates a pipeline with the given stages.
func New(logger *slog.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{stages: stages, logger: logger}
}

// FromConfig creates the standard five-stage pipeline.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	fn, err := similarity.ParseFunction(cfg.Selection.Function)
	if err != nil {
		return nil, fmt.Errorf("invalid selection.function: %w", err)
	}
	formula, err := flooding.ParseFormula(cfg.Matching.Formula)
	if err != nil {
		return nil, fmt.Errorf("invalid matching.formula: %w", err)
	}

	return New(logger,
		&SelectionStage{
			Skip: cfg.Selection.Skip,
			Selector: selection.New(selection.Options{
				Function: fn,
				Thresholds: map[core.ModelType]float64{
					core.ModelTypeArchitecture: cfg.Selection.ThresholdArchitecture,
					core.ModelTypeCode:         cfg.Selection.ThresholdCode,
				},
				MatchThreshold: cfg.Selection.MatchThreshold,
				MatchDelta:     cfg.Selection.MatchDelta,
			}, logger),
		},
		&MatchingStage{
			Skip:                    cfg.Matching.Skip,
			MinWeight:               cfg.Similarity.MinWeight,
			TextSimilarityThreshold: cfg.Matching.TextSimilarityThreshold,
			Epsilon:                 cfg.Matching.Epsilon,
			MaxIterations:           cfg.Matching.MaxIterations,
			Formula:                 formula,
		},
		&FilterStage{
			Skip: cfg.Filter.Skip,
			Options: matching.Options{
				SimilarityThreshold:     cfg.Filter.SimilarityThreshold,
				TextSimilarityThreshold: cfg.Matching.TextSimilarityThreshold,
			},
		},
		&RulesStage{
			Skip:   cfg.Rules.Skip,
			Engine: consistency.NewEngine(cfg.EngineConfig(), logger),
		},
		&RefineStage{
			Skip: cfg.Refine.Skip,
		},
	), nil
}

// Stages returns the stages in run order.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Run executes every stage against r. It stops early only when ctx is done
// or a stage fails for a reason other than a missing precondition.
func (p *Pipeline) Run(ctx context.Context, r *state.Run) error {
	logger := p.logger.With(slog.String("run", r.ID.String()))
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		stageLogger := logger.With(slog.String("stage", s.Name()))
		if s.Skipped() {
			stageLogger.Debug("stage skipped")
			continue
		}

		err := s.Run(r, stageLogger)
		switch {
		case err == nil:
			stageLogger.Debug("stage completed")
		case errors.Is(err, core.ErrMissingPrecondition):
			stageLogger.Error("stage not run", slog.String("error", err.Error()))
		default:
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
	}
	return nil
}
