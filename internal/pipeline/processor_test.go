package pipeline

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
)

type recordingRecorder struct {
	metrics.NoopRecorder
	results   map[string]metrics.ResultLabel
	generated map[string]int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{results: map[string]metrics.ResultLabel{}, generated: map[string]int{}}
}

func (r *recordingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.results[stage] = result
}

func (r *recordingRecorder) AddGeneratedPages(generator string, n int) {
	r.generated[generator] += n
}

func tracing(name string, trail *[]string, generated bool) Transform {
	return Transform{Name: name, Generated: generated, Fn: func(_ context.Context, doc *content.Document) error {
		*trail = append(*trail, name+":"+doc.Path)
		return nil
	}}
}

func TestProcess_PhasesRunToCompletionInOrder(t *testing.T) {
	var trail []string
	docs := []*content.Document{content.New("a.md", "pages"), content.New("b.md", "pages")}

	p := NewProcessor(nil).
		WithInit(tracing("init", &trail, false)).
		WithGenerators(Generator{Name: "gen", Fn: func(gc *GenerationContext) ([]*content.Document, error) {
			trail = append(trail, "gen")
			assert.Len(t, gc.Documents, 2)
			assert.NotNil(t, gc.Config)
			return nil, nil
		}}).
		WithPrerender(tracing("pre", &trail, false))

	out, err := p.Process(context.Background(), docs)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"init:a.md", "init:b.md", "gen", "pre:a.md", "pre:b.md"}, trail)
}

func TestProcess_GeneratedDocumentsOnlyRunOptInTransforms(t *testing.T) {
	var trail []string
	p := NewProcessor(nil).
		WithInit(tracing("plain", &trail, false), tracing("optin", &trail, true)).
		WithGenerators(Generator{Name: "gen", Fn: func(*GenerationContext) ([]*content.Document, error) {
			return []*content.Document{content.New("gen.md", "pages")}, nil
		}}).
		WithPrerender(tracing("pre", &trail, false))

	out, err := p.Process(context.Background(), []*content.Document{content.New("src.md", "pages")})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[1].Generated)
	assert.Equal(t, []string{"plain:src.md", "optin:src.md", "optin:gen.md", "pre:src.md"}, trail)
}

func TestProcess_LaterGeneratorsSeeEarlierOutput(t *testing.T) {
	var seen int
	p := NewProcessor(nil).WithGenerators(
		Generator{Name: "first", Fn: func(*GenerationContext) ([]*content.Document, error) {
			return []*content.Document{content.New("x.md", "pages")}, nil
		}},
		Generator{Name: "second", Fn: func(gc *GenerationContext) ([]*content.Document, error) {
			seen = len(gc.Documents)
			return nil, nil
		}},
	)
	_, err := p.Process(context.Background(), []*content.Document{content.New("a.md", "pages")})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestProcess_FailsFastWithClassifiedStageError(t *testing.T) {
	var trail []string
	boom := stderrors.New("boom")
	rec := newRecordingRecorder()
	p := NewProcessor(nil).
		WithRecorder(rec).
		WithInit(Transform{Name: "explode", Fn: func(_ context.Context, doc *content.Document) error {
			if doc.Path == "b.md" {
				return boom
			}
			return nil
		}}).
		WithPrerender(tracing("pre", &trail, false))

	docs := []*content.Document{content.New("a.md", "pages"), content.New("b.md", "pages"), content.New("c.md", "pages")}
	_, err := p.Process(context.Background(), docs)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, PhaseInit, stageErr.Stage)
	assert.Equal(t, StageErrorFatal, stageErr.Kind)
	assert.ErrorIs(t, err, boom)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryBuild, ce.Category())
	assert.Equal(t, "explode", contextString(ce, "transform"))
	assert.Equal(t, "b.md", contextString(ce, "path"))

	assert.Empty(t, trail, "later phases must not run")
	assert.Equal(t, metrics.ResultFatal, rec.results[PhaseInit])
	_, ranPrerender := rec.results[PhasePrerender]
	assert.False(t, ranPrerender)
}

func TestProcess_GeneratorErrorNamesGenerator(t *testing.T) {
	p := NewProcessor(nil).WithGenerators(Generator{Name: "broken", Fn: func(*GenerationContext) ([]*content.Document, error) {
		return nil, stderrors.New("nope")
	}})
	_, err := p.Process(context.Background(), nil)
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "broken", contextString(ce, "generator"))
	assert.Equal(t, PhaseGenerate, contextString(ce, "stage"))
}

func TestProcess_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := newRecordingRecorder()

	_, err := NewProcessor(nil).WithRecorder(rec).Process(ctx, []*content.Document{content.New("a.md", "pages")})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageErrorCanceled, stageErr.Kind)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, metrics.ResultCanceled, rec.results[PhaseInit])
}

func TestNewDefaultProcessor_Wiring(t *testing.T) {
	names := NewDefaultProcessor(config.Default(), nil).Names()
	assert.Equal(t, []string{"normalize_permalink", "rank", "showcase_suppress", "showcase_pagination"}, names[PhaseInit])
	assert.Equal(t, []string{"normalize_permalinks", "showcase_takeover", "hierarchical_indexes"}, names[PhaseGenerate])
	assert.Equal(t, []string{"tail_includes", "showcase_permalink", "title_fallback"}, names[PhasePrerender])

	cfg := config.Default()
	cfg.Showcase.Enabled = false
	cfg.Rank.Enabled = false
	names = NewDefaultProcessor(cfg, stubSource{}).Names()
	assert.Equal(t, []string{"normalize_permalink", "last_modified"}, names[PhaseInit])
	assert.Equal(t, []string{"normalize_permalinks", "hierarchical_indexes"}, names[PhaseGenerate])
}

func contextString(ce *errors.ClassifiedError, key string) string {
	v, _ := ce.Context().GetString(key)
	return v
}
