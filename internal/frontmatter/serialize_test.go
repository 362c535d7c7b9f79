package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSerialize_SortedKeys(t *testing.T) {
	fields := map[string]any{"b": "two", "a": "one", "c": 3}

	out1, err := Serialize(fields, "\n")
	require.NoError(t, err)
	out2, err := Serialize(fields, "\n")
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(out1))
}

func TestSerialize_NestedAndSequences(t *testing.T) {
	fields := map[string]any{
		"pagination": map[string]any{"per_page": 12, "enabled": true},
		"tail":       []string{"related-posts", "post-nav"},
		"rank":       int64(10000001700000000),
	}

	out, err := Serialize(fields, "\n")
	require.NoError(t, err)
	require.Equal(t,
		"pagination:\n  enabled: true\n  per_page: 12\nrank: 10000001700000000\ntail:\n  - related-posts\n  - post-nav\n",
		string(out))
}

func TestSerialize_Time(t *testing.T) {
	ts := time.Date(2025, 6, 29, 10, 0, 0, 0, time.UTC)
	out, err := Serialize(map[string]any{"date": ts}, "\n")
	require.NoError(t, err)
	require.Equal(t, "date: 2025-06-29T10:00:00Z\n", string(out))
}

func TestSerialize_CRLF(t *testing.T) {
	out, err := Serialize(map[string]any{"a": "one"}, "\r\n")
	require.NoError(t, err)
	require.Equal(t, "a: one\r\n", string(out))
}

func TestSerialize_Empty(t *testing.T) {
	out, err := Serialize(map[string]any{}, "\n")
	require.NoError(t, err)
	require.Empty(t, out)
}
