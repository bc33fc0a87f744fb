// Package parser extracts frontmatter, aliases, and headings from Markdown content.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/models"
)

var headingRe = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*$`)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter   map[string]interface{}
	Body          string
	Title         string
	Aliases       []string
	Headings      []models.Heading
	IgnoreLinking bool
}

// Parse extracts frontmatter, body, aliases, and headings from raw Markdown bytes.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	return &Result{
		Frontmatter:   fm,
		Body:          body,
		Title:         deriveTitle(fm, body),
		Aliases:       extractAliases(fm),
		Headings:      extractHeadings(body),
		IgnoreLinking: ignoreFlag(fm),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	// Find end delimiter.
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter — treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	// Body starts after closing delimiter line.
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML — treat everything as body, no metadata this cycle.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// extractAliases reads the frontmatter "aliases" field, accepting either a
// single scalar string or a list. Non-string values are silently skipped.
func extractAliases(fm map[string]interface{}) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm["aliases"]
	if !ok {
		return nil
	}

	var out []string
	add := func(v interface{}) {
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}

	switch v := raw.(type) {
	case string:
		add(v)
	case []interface{}:
		for _, item := range v {
			add(item)
		}
	}
	return out
}

// extractHeadings returns every ATX heading (# through ######) in the body
// with its level.
func extractHeadings(body string) []models.Heading {
	matches := headingRe.FindAllStringSubmatch(body, -1)
	var out []models.Heading
	for _, m := range matches {
		text := strings.TrimSpace(m[2])
		if text == "" {
			continue
		}
		out = append(out, models.Heading{Text: text, Level: len(m[1])})
	}
	return out
}

// ignoreFlag reads the frontmatter "ignore_linking" field. Anything other
// than a boolean true means the document participates in linking.
func ignoreFlag(fm map[string]interface{}) bool {
	if fm == nil {
		return false
	}
	v, ok := fm["ignore_linking"].(bool)
	return ok && v
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
