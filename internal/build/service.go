package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/manifest"
)

// BuildService is the canonical interface for executing site builds.
type BuildService interface {
	// Run executes load → process → emit → manifest.
	// Returns a BuildResult with detailed outcomes and any error encountered.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// Options provides optional build behavior modifiers.
	Options BuildOptions
}

// BuildOptions provides optional configuration for build behavior.
type BuildOptions struct {
	// DryRun processes documents without writing output or the manifest.
	DryRun bool
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// Status indicates overall build outcome.
	Status BuildStatus

	// Stage names the stage that failed, if any.
	Stage StageName

	// Documents holds the processed documents, loaded ones first.
	Documents []*content.Document

	// Loaded is the count of documents read from the source tree.
	Loaded int

	// Generated is the count of documents created by generators.
	Generated int

	// Written is the count of files emitted (0 for dry runs).
	Written int

	// Manifest describes the emitted tree; nil when the build failed early.
	Manifest *manifest.BuildManifest

	// ManifestPath is where the manifest was written (empty for dry runs).
	ManifestPath string

	// Commit is the revision history was read from, when available.
	Commit string

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}
