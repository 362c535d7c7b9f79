// Package pipeline runs the ordered document phases of a build: per-document
// init transforms, site-wide generators, then pre-render transforms.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
)

// Phase names, also used as metric stage labels.
const (
	PhaseInit      = "init"
	PhaseGenerate  = "generate"
	PhasePrerender = "prerender"
)

// FileTransform modifies one document in place.
type FileTransform func(ctx context.Context, doc *content.Document) error

// Transform is a named FileTransform. Generated documents are skipped unless
// the transform opts in with Generated.
type Transform struct {
	Name      string
	Fn        FileTransform
	Generated bool
}

// FileGenerator creates documents from the whole document set.
//
// Generators should:
// - Read ctx.Documents (loaded documents plus the output of earlier generators)
// - Return new documents; the processor marks them Generated
// - Not modify existing documents, except for idempotent re-normalization passes.
type FileGenerator func(ctx *GenerationContext) ([]*content.Document, error)

// Generator is a named FileGenerator.
type Generator struct {
	Name string
	Fn   FileGenerator
}

// GenerationContext is what a generator sees.
type GenerationContext struct {
	Context   context.Context
	Documents []*content.Document
	Config    *config.Config
}

// Processor owns the three ordered phase lists.
type Processor struct {
	config     *config.Config
	init       []Transform
	generators []Generator
	prerender  []Transform
	recorder   metrics.Recorder
}

// NewProcessor creates a processor with empty phases. Use NewDefaultProcessor
// for the standard site wiring.
func NewProcessor(cfg *config.Config) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Processor{config: cfg, recorder: metrics.NoopRecorder{}}
}

func (p *Processor) WithInit(ts ...Transform) *Processor {
	p.init = append(p.init, ts...)
	return p
}

func (p *Processor) WithGenerators(gs ...Generator) *Processor {
	p.generators = append(p.generators, gs...)
	return p
}

func (p *Processor) WithPrerender(ts ...Transform) *Processor {
	p.prerender = append(p.prerender, ts...)
	return p
}

func (p *Processor) WithRecorder(r metrics.Recorder) *Processor {
	if r != nil {
		p.recorder = r
	}
	return p
}

// Names lists the registered transforms and generators per phase.
func (p *Processor) Names() map[string][]string {
	out := map[string][]string{}
	for _, t := range p.init {
		out[PhaseInit] = append(out[PhaseInit], t.Name)
	}
	for _, g := range p.generators {
		out[PhaseGenerate] = append(out[PhaseGenerate], g.Name)
	}
	for _, t := range p.prerender {
		out[PhasePrerender] = append(out[PhasePrerender], t.Name)
	}
	return out
}

// Process runs every phase to completion before the next starts and stops at
// the first error. The returned slice holds the input documents followed by
// generated ones in generator order.
func (p *Processor) Process(ctx context.Context, docs []*content.Document) ([]*content.Document, error) {
	if err := p.runPhase(ctx, PhaseInit, func() error {
		return p.applyAll(ctx, PhaseInit, p.init, docs)
	}); err != nil {
		return nil, err
	}

	if err := p.runPhase(ctx, PhaseGenerate, func() error {
		var err error
		docs, err = p.generate(ctx, docs)
		return err
	}); err != nil {
		return nil, err
	}

	if err := p.runPhase(ctx, PhasePrerender, func() error {
		return p.applyAll(ctx, PhasePrerender, p.prerender, docs)
	}); err != nil {
		return nil, err
	}
	return docs, nil
}

func (p *Processor) runPhase(ctx context.Context, phase string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		p.recorder.IncStageResult(phase, metrics.ResultCanceled)
		return &StageError{Kind: StageErrorCanceled, Stage: phase, Err: err}
	}
	start := time.Now()
	err := fn()
	dur := time.Since(start)
	p.recorder.ObserveStageDuration(phase, dur)

	if err != nil {
		result := metrics.ResultFatal
		kind := StageErrorFatal
		if ctx.Err() != nil {
			result, kind = metrics.ResultCanceled, StageErrorCanceled
		}
		p.recorder.IncStageResult(phase, result)
		return &StageError{Kind: kind, Stage: phase, Err: err}
	}
	p.recorder.IncStageResult(phase, metrics.ResultSuccess)
	slog.Debug("Phase complete", logfields.Stage(phase), logfields.DurationMS(float64(dur.Microseconds())/1000))
	return nil
}

func (p *Processor) applyAll(ctx context.Context, phase string, ts []Transform, docs []*content.Document) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(ctx, phase, ts, doc); err != nil {
			return err
		}
	}
	return nil
}

func apply(ctx context.Context, phase string, ts []Transform, doc *content.Document) error {
	for _, t := range ts {
		if doc.Generated && !t.Generated {
			continue
		}
		if err := t.Fn(ctx, doc); err != nil {
			return errors.WrapError(err, errors.CategoryBuild, fmt.Sprintf("transform %s failed", t.Name)).
				Fatal().
				WithContext("stage", phase).
				WithContext("transform", t.Name).
				WithContext("path", doc.Path).
				Build()
		}
	}
	return nil
}

func (p *Processor) generate(ctx context.Context, docs []*content.Document) ([]*content.Document, error) {
	for _, g := range p.generators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gctx := &GenerationContext{Context: ctx, Documents: docs, Config: p.config}
		created, err := g.Fn(gctx)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryBuild, fmt.Sprintf("generator %s failed", g.Name)).
				Fatal().
				WithContext("stage", PhaseGenerate).
				WithContext("generator", g.Name).
				Build()
		}
		for _, doc := range created {
			doc.Generated = true
			if err := apply(ctx, PhaseInit, p.init, doc); err != nil {
				return nil, err
			}
		}
		if len(created) > 0 {
			slog.Debug("Generator produced documents", slog.String("generator", g.Name), logfields.Count(len(created)))
		}
		p.recorder.AddGeneratedPages(g.Name, len(created))
		docs = append(docs, created...)
	}
	return docs, nil
}
