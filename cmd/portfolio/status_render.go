package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// outcome is the word printed between a line's label and its message.
type outcome int

const (
	outcomeNote outcome = iota
	outcomeDone
	outcomeReady
	outcomeUnchanged
	outcomePartial
	outcomeMissing
)

var outcomeWords = map[outcome]string{
	outcomeNote:      "note",
	outcomeDone:      "done",
	outcomeReady:     "ready",
	outcomeUnchanged: "unchanged",
	outcomePartial:   "partial",
	outcomeMissing:   "missing",
}

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const (
	labelWidth   = 10
	outcomeWidth = 9
)

// renderStatusLine formats "label  outcome  message" in fixed columns. Only
// the outcome word is coloured.
func renderStatusLine(label string, kind outcome, message string, colorize bool) string {
	word := fmt.Sprintf("%-*s", outcomeWidth, outcomeWords[kind])
	if colorize {
		word = outcomeColor(kind) + word + ansiReset
	}
	line := fmt.Sprintf("%-*s %s", labelWidth, strings.ToLower(label), word)
	if message != "" {
		line += " " + message
	}
	return strings.TrimRight(line, " ")
}

func outcomeColor(kind outcome) string {
	switch kind {
	case outcomeDone, outcomeReady:
		return ansiGreen
	case outcomePartial:
		return ansiYellow
	case outcomeMissing:
		return ansiRed
	default:
		return ansiDim
	}
}

// renderSectionHeader returns the title and an underline of the same width.
func renderSectionHeader(title string, colorize bool) []string {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("=", len(title))
	if colorize {
		title = ansiDim + title + ansiReset
	}
	return []string{"", title, rule}
}

// shouldColorize reports whether writer is a terminal and NO_COLOR is unset.
func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
