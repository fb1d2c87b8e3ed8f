package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Document is a markdown file with an optional YAML front matter block.
type Document struct {
	Meta map[string]any
	Body string
}

// Parse splits content into front matter and body. Content without a leading
// fence is all body.
func Parse(content string) (Document, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence) {
		return Document{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, fence)
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return Document{}, fmt.Errorf("front matter: missing closing fence")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return Document{}, fmt.Errorf("front matter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return Document{Meta: meta, Body: rest[idx+1+len(fence):]}, nil
}

func (d Document) String() (string, error) {
	var buf bytes.Buffer
	if len(d.Meta) > 0 {
		raw, err := yaml.Marshal(d.Meta)
		if err != nil {
			return "", fmt.Errorf("front matter: %w", err)
		}
		buf.WriteString(fence)
		buf.Write(raw)
		buf.WriteString(fence)
		if !strings.HasPrefix(d.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	buf.WriteString(d.Body)
	return buf.String(), nil
}

func markers(name string) (string, string) {
	return "<!-- " + name + ":start -->", "<!-- " + name + ":end -->"
}

// ReplaceBlock swaps the generated block called name for generated, keeping
// whatever the user wrote around it. A missing block is appended.
func (d *Document) ReplaceBlock(name, generated string) {
	start, end := markers(name)
	block := start + "\n" + strings.TrimRight(generated, "\n") + "\n" + end

	body := d.Body
	i := strings.Index(body, start)
	j := strings.Index(body, end)
	switch {
	case i >= 0 && j > i:
		d.Body = body[:i] + block + body[j+len(end):]
	case strings.TrimSpace(body) == "":
		d.Body = block + "\n"
	case strings.HasSuffix(body, "\n"):
		d.Body = body + "\n" + block + "\n"
	default:
		d.Body = body + "\n\n" + block + "\n"
	}
}

// Block returns the generated content of name, if present.
func (d Document) Block(name string) (string, bool) {
	start, end := markers(name)
	i := strings.Index(d.Body, start)
	j := strings.Index(d.Body, end)
	if i < 0 || j <= i {
		return "", false
	}
	return strings.Trim(d.Body[i+len(start):j], "\n"), true
}
