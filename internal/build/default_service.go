package build

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	dberrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/history"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/manifest"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
	"git.home.luguber.info/inful/sitegraph/internal/site"
	"git.home.luguber.info/inful/sitegraph/internal/version"
)

// HistoryHandle is an opened revision history backend.
type HistoryHandle struct {
	Source history.Source
	Commit string
	Closer io.Closer // optional
}

// HistoryFactory opens the revision history for a configuration.
type HistoryFactory func(ctx context.Context, cfg *config.Config) (*HistoryHandle, error)

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	historyFactory HistoryFactory
	recorder       metrics.Recorder
	now            func() time.Time
}

// NewBuildService creates a DefaultBuildService reading history from git.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		historyFactory: OpenGitHistory,
		recorder:       metrics.NoopRecorder{},
		now:            time.Now,
	}
}

// WithHistoryFactory replaces the history backend (for testing, or nil to disable).
func (s *DefaultBuildService) WithHistoryFactory(f HistoryFactory) *DefaultBuildService {
	s.historyFactory = f
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := s.now()
	result := &BuildResult{StartTime: startTime}

	finish := func(status BuildStatus, err error) (*BuildResult, error) {
		result.Status = status
		result.EndTime = s.now()
		result.Duration = result.EndTime.Sub(startTime)
		switch status {
		case BuildStatusSuccess:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		case BuildStatusCancelled:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		default:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
		s.recorder.ObserveBuildDuration(result.Duration)
		return result, err
	}

	cfg := req.Config
	if cfg == nil {
		return finish(BuildStatusFailed, dberrors.ConfigError("config required").Build())
	}

	var (
		docs      []*content.Document
		processed []*content.Document
		src       history.Source
		entries   []manifest.Entry

		closeHistory io.Closer
	)
	stages := []stage{
		{StageLoad, func(ctx context.Context) error {
			loader := &content.Loader{Destination: cfg.Destination, Exclude: cfg.Exclude, Defaults: cfg.Defaults}
			var err error
			docs, err = loader.Load(ctx, cfg.Source)
			if err != nil {
				return err
			}
			result.Loaded = len(docs)
			s.recordCollections(docs)
			slog.Info("Loaded source tree", logfields.Path(cfg.Source), logfields.Count(len(docs)))
			return nil
		}},
		{StageHistory, func(ctx context.Context) error {
			if !cfg.LastModified.Enabled || s.historyFactory == nil {
				return nil
			}
			h, err := s.historyFactory(ctx, cfg)
			if err != nil {
				// Missing history is not fatal: last_modified_at is simply absent.
				slog.Warn("Revision history unavailable", logfields.Path(cfg.Source), logfields.Error(err))
				return nil
			}
			src = h.Source
			result.Commit = h.Commit
			closeHistory = h.Closer
			if h.Commit != "" {
				slog.Debug("Reading revision history", logfields.Commit(h.Commit))
			}
			return nil
		}},
		{StageProcess, func(ctx context.Context) error {
			var err error
			processed, err = pipeline.NewDefaultProcessor(cfg, src).
				WithRecorder(s.recorder).
				Process(ctx, docs)
			if err != nil {
				return err
			}
			result.Documents = processed
			result.Generated = len(processed) - len(docs)
			return nil
		}},
		{StageEmit, func(ctx context.Context) error {
			if req.Options.DryRun {
				return nil
			}
			var err error
			entries, err = site.NewWriter(cfg.Destination, cfg.Rank.Field).Write(ctx, processed)
			if err != nil {
				return err
			}
			result.Written = len(entries)
			return nil
		}},
		{StageManifest, func(context.Context) error {
			m := s.buildManifest(cfg, result, entries)
			result.Manifest = m
			if req.Options.DryRun {
				return nil
			}
			path, err := m.Write(cfg.Destination)
			if err != nil {
				return dberrors.WrapError(err, dberrors.CategoryFileSystem, "write manifest").
					WithContext("path", cfg.Destination).Build()
			}
			result.ManifestPath = path
			return nil
		}},
	}

	failed, err := runStages(ctx, s.recorder, stages)
	if closeHistory != nil {
		if cerr := closeHistory.Close(); cerr != nil {
			slog.Warn("Closing revision history failed", logfields.Error(cerr))
		}
	}
	if err != nil {
		result.Stage = failed
		if isCancellation(ctx, err) {
			return finish(BuildStatusCancelled, err)
		}
		return finish(BuildStatusFailed, err)
	}

	slog.Info("Build complete",
		logfields.Count(result.Written),
		slog.Int("loaded", result.Loaded),
		slog.Int("generated", result.Generated),
		slog.Bool("dry_run", req.Options.DryRun))
	return finish(BuildStatusSuccess, nil)
}

func (s *DefaultBuildService) recordCollections(docs []*content.Document) {
	counts := map[string]int{}
	for _, d := range docs {
		counts[d.Collection]++
	}
	for c, n := range counts {
		s.recorder.SetDocuments(c, n)
	}
}

func (s *DefaultBuildService) buildManifest(cfg *config.Config, result *BuildResult, entries []manifest.Entry) *manifest.BuildManifest {
	names := pipeline.NewDefaultProcessor(cfg, nil).Names()
	configHash, err := manifest.HashConfig(cfg)
	if err != nil {
		slog.Debug("Config hash unavailable", logfields.Error(err))
	}

	m := &manifest.BuildManifest{
		ID:        uuid.NewString(),
		Version:   version.Version,
		Timestamp: result.StartTime.UTC(),
		Inputs:    manifest.Inputs{Source: cfg.Source, Commit: result.Commit, ConfigHash: configHash},
		Plan: manifest.Plan{
			Init:      names[pipeline.PhaseInit],
			Generate:  names[pipeline.PhaseGenerate],
			Prerender: names[pipeline.PhasePrerender],
		},
		Status:   manifest.StatusSuccess,
		Duration: s.now().Sub(result.StartTime).Milliseconds(),
	}
	for _, e := range entries {
		m.Add(e)
	}
	return m
}

// OpenGitHistory reads revision facts from the git repository enclosing the
// source root, through the SQLite cache when one is configured.
func OpenGitHistory(ctx context.Context, cfg *config.Config) (*HistoryHandle, error) {
	gs, err := history.OpenGitSource(cfg.Source)
	if err != nil {
		return nil, err
	}
	handle := &HistoryHandle{Source: gs, Commit: gs.Head()}
	if cfg.LastModified.Cache == "" {
		return handle, nil
	}

	cache, err := history.OpenCache(cfg.LastModified.Cache)
	if err != nil {
		slog.Warn("Revision cache unavailable", logfields.Path(cfg.LastModified.Cache), logfields.Error(err))
		return handle, nil
	}
	if n, err := cache.Prune(ctx, gs.Head()); err != nil {
		slog.Debug("Revision cache prune failed", logfields.Error(err))
	} else if n > 0 {
		slog.Debug("Pruned revision cache", logfields.Count(int(n)))
	}
	handle.Source = &history.CachedSource{Inner: gs, Cache: cache}
	handle.Closer = cache
	return handle, nil
}
