// Package manifest describes the output of one build: every emitted document
// with the graph fields a renderer reads, plus the inputs and plan that
// produced it.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the manifest's name inside the destination directory.
const FileName = "manifest.json"

// Build status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// BuildManifest is the root manifest document.
type BuildManifest struct {
	ID         string    `json:"id"`
	Version    string    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	Inputs     Inputs    `json:"inputs"`
	Plan       Plan      `json:"plan"`
	Documents  []Entry   `json:"documents"`
	IndexPages []Entry   `json:"index_pages"`
	Status     string    `json:"status"`
	Duration   int64     `json:"duration_ms"`
}

// Inputs identifies what the build read.
type Inputs struct {
	Source     string `json:"source"`
	Commit     string `json:"commit,omitempty"`
	ConfigHash string `json:"config_hash"`
}

// Plan lists the transforms and generators per pipeline phase.
type Plan struct {
	Init      []string `json:"init"`
	Generate  []string `json:"generate"`
	Prerender []string `json:"prerender"`
}

// Entry is one emitted document.
type Entry struct {
	Path         string   `json:"path"`
	Output       string   `json:"output"`
	Collection   string   `json:"collection"`
	Permalink    string   `json:"permalink"`
	Title        string   `json:"title,omitempty"`
	Rank         *int64   `json:"rank,omitempty"`
	TailIncludes []string `json:"tail_includes,omitempty"`
	Posts        []string `json:"posts,omitempty"`
	Generated    bool     `json:"generated,omitempty"`
	UID          string   `json:"uid,omitempty"`
	Fingerprint  string   `json:"fingerprint"`
}

// Add files an entry under documents, or under index pages when it lists posts.
func (m *BuildManifest) Add(e Entry) {
	if e.Generated && e.Posts != nil {
		m.IndexPages = append(m.IndexPages, e)
		return
	}
	m.Documents = append(m.Documents, e)
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Write stores the manifest as FileName inside dir.
func (m *BuildManifest) Write(dir string) (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, FileName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create manifest dir: %w", err)
	}
	// #nosec G306 -- the manifest is published alongside the content
	if err := os.WriteFile(target, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return target, nil
}

// Hash computes a deterministic hash of the inputs, plan and emitted
// fingerprints. Two builds with equal hashes produced the same content graph.
func (m *BuildManifest) Hash() (string, error) {
	type outputKey struct {
		Output      string `json:"output"`
		Fingerprint string `json:"fingerprint"`
	}
	outputs := make([]outputKey, 0, len(m.Documents)+len(m.IndexPages))
	for _, list := range [][]Entry{m.Documents, m.IndexPages} {
		for _, e := range list {
			outputs = append(outputs, outputKey{Output: e.Output, Fingerprint: e.Fingerprint})
		}
	}

	hashInput := struct {
		Inputs  Inputs      `json:"inputs"`
		Plan    Plan        `json:"plan"`
		Outputs []outputKey `json:"outputs"`
	}{Inputs: m.Inputs, Plan: m.Plan, Outputs: outputs}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// HashConfig returns a stable digest of any JSON-serializable configuration.
func HashConfig(cfg any) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
