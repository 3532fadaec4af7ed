// Package seed imports goal fixture files (YAML frontmatter plus a Markdown
// description) into the goal service and keeps them in sync with the disk.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/goalpost/internal/models"
)

// ErrNoFrontmatter is returned for a fixture that does not open with a --- block.
var ErrNoFrontmatter = errors.New("seed: missing frontmatter")

// Parse reads a goal fixture. Frontmatter keys follow the goal's yaml tags and
// the body after the closing delimiter becomes the description. id is required.
func Parse(data []byte) (*models.Goal, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var g models.Goal
	if err := yaml.Unmarshal(fm, &g); err != nil {
		return nil, fmt.Errorf("seed: frontmatter: %w", err)
	}
	g.ID = strings.TrimSpace(g.ID)
	if g.ID == "" {
		return nil, errors.New("seed: frontmatter: id is required")
	}
	g.Description = strings.TrimSpace(body)
	g.Normalize()
	return &g, nil
}

// Format renders g as a fixture. Parse(Format(g)) round-trips every field
// carried by the fixture format.
func Format(g *models.Goal) ([]byte, error) {
	fm, err := yaml.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("seed: format: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if g.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(g.Description)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// splitFrontmatter separates the YAML block between the leading --- delimiters
// from the Markdown body.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", ErrNoFrontmatter
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", fmt.Errorf("%w: no closing delimiter", ErrNoFrontmatter)
	}

	block := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")
	return block, body, nil
}
