package validate

import (
	"fmt"
	"slices"
	"strings"
)

// Gherkin step keywords.
const (
	KeywordGiven = "Given"
	KeywordWhen  = "When"
	KeywordThen  = "Then"
	KeywordAnd   = "And"
	KeywordBut   = "But"
)

var gherkinKeywords = []string{KeywordGiven, KeywordWhen, KeywordThen, KeywordAnd, KeywordBut}

// GherkinStep is one non-blank line of acceptance criteria.
// Keyword is empty for a line that does not start with a step keyword.
type GherkinStep struct {
	Keyword string `json:"keyword"`
	Text    string `json:"text"`
}

// ParseGherkinContent splits text into steps, skipping blank lines.
func ParseGherkinContent(content string) []GherkinStep {
	var steps []GherkinStep
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		steps = append(steps, parseStep(line))
	}
	return steps
}

func parseStep(line string) GherkinStep {
	word, rest, _ := strings.Cut(line, " ")
	if slices.Contains(gherkinKeywords, word) {
		return GherkinStep{Keyword: word, Text: strings.TrimSpace(rest)}
	}
	return GherkinStep{Text: line}
}

// GherkinToContent renders steps back to one line per step.
func GherkinToContent(steps []GherkinStep) string {
	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		switch {
		case s.Keyword == "":
			lines = append(lines, s.Text)
		case s.Text == "":
			lines = append(lines, s.Keyword)
		default:
			lines = append(lines, s.Keyword+" "+s.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// ValidateGherkin returns a human-readable message per violation; none means valid.
// Every non-blank line must start with a step keyword, and the block needs at
// least one Given, one When and one Then.
func ValidateGherkin(content string) []string {
	var msgs []string
	seen := make(map[string]bool)
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		step := parseStep(line)
		if step.Keyword == "" {
			msgs = append(msgs, fmt.Sprintf("Line %d: must start with Given, When, Then, And, or But", i+1))
			continue
		}
		seen[step.Keyword] = true
	}
	for _, kw := range []string{KeywordGiven, KeywordWhen, KeywordThen} {
		if !seen[kw] {
			msgs = append(msgs, fmt.Sprintf("Missing %s clause", kw))
		}
	}
	return msgs
}
