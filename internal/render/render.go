// Package render turns raw assistant text into embeddable chat markup and
// extracts numbered choice lines into selectable options.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Choice is a selectable option parsed from a numbered list line.
type Choice struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
}

// Result holds the rendered markup plus the choices found in it, in
// document order.
type Result struct {
	Markup  string
	Choices []Choice
}

type pass struct {
	name  string
	apply func(text string, choices []Choice) (string, []Choice)
}

var (
	h3Pattern     = regexp.MustCompile(`(?m)^###\s*(.+)$`)
	h2Pattern     = regexp.MustCompile(`(?m)^##\s*(.+)$`)
	h1Pattern     = regexp.MustCompile(`(?m)^#\s*(.+)$`)
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	choicePattern = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.\s+(.*)$`)
)

// passes run in a fixed order: headings, bold, choice lines, line breaks.
// Choice lines must be matched while real newlines still exist, so the
// line-break pass always runs last.
var passes = []pass{
	{name: "headings", apply: applyHeadings},
	{name: "bold", apply: applyBold},
	{name: "choices", apply: applyChoices},
	{name: "linebreaks", apply: applyLineBreaks},
}

// Reply renders raw assistant text. The input is HTML-escaped before any
// pass runs, so provider text cannot inject markup of its own. A numbered
// line in running prose still becomes a choice; the assistant's output
// format is prompt-controlled, so that false positive is accepted.
func Reply(raw string) Result {
	text := html.EscapeString(raw)
	choices := []Choice{}
	for _, p := range passes {
		text, choices = p.apply(text, choices)
	}
	return Result{Markup: text, Choices: choices}
}

// applyHeadings converts heading lines, most specific marker first so that
// "###" is never consumed by the "#" rule.
func applyHeadings(text string, choices []Choice) (string, []Choice) {
	text = h3Pattern.ReplaceAllString(text, "<h3>$1</h3>")
	text = h2Pattern.ReplaceAllString(text, "<h2>$1</h2>")
	text = h1Pattern.ReplaceAllString(text, "<h1>$1</h1>")
	return text, choices
}

func applyBold(text string, choices []Choice) (string, []Choice) {
	return boldPattern.ReplaceAllString(text, "<strong>$1</strong>"), choices
}

// applyChoices rewrites numbered list lines into choice buttons and records
// each parsed number/label pair.
func applyChoices(text string, choices []Choice) (string, []Choice) {
	out := choicePattern.ReplaceAllStringFunc(text, func(line string) string {
		m := choicePattern.FindStringSubmatch(line)
		number, err := strconv.Atoi(m[1])
		if err != nil {
			return line
		}
		label := strings.TrimSpace(m[2])
		choices = append(choices, Choice{Number: number, Label: label})
		return fmt.Sprintf(`<button class="choice-button" data-choice="%d">%d. %s</button>`, number, number, label)
	})
	return out, choices
}

func applyLineBreaks(text string, choices []Choice) (string, []Choice) {
	return strings.ReplaceAll(text, "\n", "<br>"), choices
}
