package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify_DefaultMode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Computer Engineering", "computer-engineering"},
		{"  CPU  ", "cpu"},
		{"", ""},
		{"   \t\n", ""},
		{"!!!", ""},
		{"My Post", "my-post"},
		{"a -- b", "a-b"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"C++ & Go", "c-go"},
		{"Café Crème", "café-crème"},
		{"数据 结构", "数据-结构"},
		{"v1.2 Release", "v1-2-release"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in, ModeDefault))
		})
	}
}

func TestSlugify_Modes(t *testing.T) {
	cases := []struct {
		mode Mode
		in   string
		want string
	}{
		{ModeNone, "  Hello World!  ", "hello world!"},
		{ModeRaw, "Hello   World!", "hello-world!"},
		{ModeRaw, "a--b c", "a-b-c"},
		{ModePretty, "v1.2 Release (beta)", "v1.2-release-(beta)"},
		{ModePretty, "a/b?c", "a-b-c"},
		{ModeASCII, "Café Crème", "caf-cr-me"},
		{ModeLatin, "Café Crème", "cafe-creme"},
		{ModeLatin, "Ünïcödé", "unicode"},
		{ModeTransliterate, "Café Crème", "cafe-creme"},
		{ModeTransliterate, "", ""},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode)+"/"+tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in, tc.mode))
		})
	}
}

func TestSlugify_UnknownModeBehavesLikeDefault(t *testing.T) {
	assert.Equal(t, Slugify("Hello World", ModeDefault), Slugify("Hello World", Mode("bogus")))
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Computer Engineering",
		"  CPU  ",
		"v1.2 Release (beta)",
		"Café Crème",
		"a -- b",
		"2025-06-29-My-Post",
		"数据 结构",
	}
	for _, mode := range Modes() {
		for _, in := range inputs {
			once := Slugify(in, mode)
			assert.Equal(t, once, Slugify(once, mode), "mode=%s input=%q", mode, in)
		}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("  Latin ")
	require.NoError(t, err)
	assert.Equal(t, ModeLatin, m)

	_, err = ParseMode("fancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fancy")
}
