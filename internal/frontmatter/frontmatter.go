// Package frontmatter splits, parses and re-serializes the YAML block at the
// top of a content file.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrUnterminated indicates the file opens a front matter block but never closes it.
var ErrUnterminated = errors.New("front matter opened with --- but the closing delimiter is missing")

// Block is a content file split into its raw front matter and body.
type Block struct {
	Raw     []byte // YAML between the delimiters, without them
	Body    []byte
	Present bool   // the file started with a --- delimiter line
	Newline string // "\n" or "\r\n", detected from the first line break
}

// Split separates the front matter block from the body.
//
// Files without a leading "---" line come back with Present=false and the
// whole input as Body.
func Split(content []byte) (Block, error) {
	nl := detectNewline(content)
	b := Block{Body: content, Newline: nl}

	delim := []byte("---" + nl)
	if !bytes.HasPrefix(content, delim) {
		return b, nil
	}
	rest := content[len(delim):]

	if bytes.HasPrefix(rest, delim) {
		b.Raw, b.Body, b.Present = []byte{}, rest[len(delim):], true
		return b, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			end := len(rest) - len("---")
			b.Raw, b.Body, b.Present = rest[:end], []byte{}, true
			return b, nil
		}
		return Block{}, ErrUnterminated
	}

	b.Raw = rest[:idx+len(nl)]
	b.Body = rest[idx+len(closing):]
	b.Present = true
	return b, nil
}

// Parse decodes raw YAML front matter into a map. Empty input yields an empty map.
func Parse(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Assemble writes fields as a delimited YAML block followed by body.
// An empty field map produces the body alone.
func Assemble(fields map[string]any, body []byte, newline string) ([]byte, error) {
	if newline == "" {
		newline = "\n"
	}
	raw, err := Serialize(fields, newline)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return body, nil
	}

	delim := []byte("---" + newline)
	out := make([]byte, 0, 2*len(delim)+len(raw)+len(body))
	out = append(out, delim...)
	out = append(out, raw...)
	out = append(out, delim...)
	out = append(out, body...)
	return out, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
