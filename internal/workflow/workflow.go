// Package workflow runs the four-stage chapter pipeline: review, pre-check,
// write, finalize. Stages share a Context and each stage builds on what the
// previous one filled in.
package workflow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/plotloom/plotloom/internal/config"
	"github.com/plotloom/plotloom/internal/project"
	"github.com/plotloom/plotloom/internal/store"
)

// Stage is one step of the chapter pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, wc *Context) error
}

// Context carries one chapter's state through the stages.
type Context struct {
	Store   *store.Store
	Project *project.Project
	Config  *config.Config

	ChapterNum   int
	ChapterTitle string

	Review  *ReviewResult
	Check   *CheckReport
	Content string

	SavedPath string
	Summary   *store.ChapterSummary
}

// Engine runs stages in order and aborts on the first failure.
type Engine struct {
	stages []Stage
	log    zerolog.Logger
}

func NewEngine(log zerolog.Logger, stages ...Stage) *Engine {
	return &Engine{stages: stages, log: log}
}

// Default wires the standard four stages. gen produces chapter prose; a nil
// gen leaves a prompt draft as content instead.
func Default(log zerolog.Logger, gen Generator) *Engine {
	return NewEngine(log,
		&ReviewStage{},
		&PreCheckStage{},
		&WriteStage{Generate: gen},
		&FinalizeStage{},
	)
}

// Run executes the pipeline for the chapter described by wc.
func (e *Engine) Run(ctx context.Context, wc *Context) error {
	for i, stage := range e.stages {
		e.log.Info().
			Str("stage", stage.Name()).
			Int("step", i+1).
			Int("of", len(e.stages)).
			Int("chapter", wc.ChapterNum).
			Msg("running stage")

		if err := stage.Run(ctx, wc); err != nil {
			e.log.Error().Str("stage", stage.Name()).Err(err).Msg("stage failed, aborting run")
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
	}
	return nil
}
