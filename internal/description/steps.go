package description

import (
	"strings"
	"unicode/utf8"
)

// Step names, in pipeline order.
const (
	StepHTML          = "html"
	StepGeoblocking   = "geoblocking"
	StepTitle         = "title"
	StepTopic         = "topic"
	StepPipe          = "pipe"
	StepVideoClip     = "video-clip"
	StepTitleAgain    = "title-again"
	StepColon         = "colon"
	StepComma         = "comma"
	StepNewline       = "newline"
	StepEscapedQuotes = "escaped-quotes"
	StepTruncate      = "truncate"
)

// Ellipsis is appended, after a newline, to descriptions cut at the maximum length.
const Ellipsis = "....."

// Input carries the film fields steps may strip from the text.
type Input struct {
	Title string
	Topic string
}

// Step is one pure text transformation of the pipeline.
type Step struct {
	Name  string
	Apply func(text string, in Input) string
}

// PlainTextStep converts HTML to plain text.
func PlainTextStep() Step {
	return Step{
		Name: StepHTML,
		Apply: func(text string, _ Input) string {
			return PlainText(text)
		},
	}
}

// GeoblockingStep removes the known Germany-only notices wherever they appear.
// When a notice was removed the remainder is trimmed.
func GeoblockingStep() Step {
	return Step{
		Name: StepGeoblocking,
		Apply: func(text string, _ Input) string {
			cleaned, removed := removeGeoblockingNotices(text)
			if !removed {
				return text
			}
			return strings.TrimSpace(cleaned)
		},
	}
}

// StripPrefixStep removes a leading prefix and trims the remainder, repeating
// while the prefix is still there. An empty prefix matches any text, so the
// text is only trimmed.
func StripPrefixStep(name string, prefix func(Input) string) Step {
	return Step{
		Name: name,
		Apply: func(text string, in Input) string {
			p := prefix(in)
			if p == "" {
				return strings.TrimSpace(text)
			}
			for strings.HasPrefix(text, p) {
				text = strings.TrimSpace(text[len(p):])
			}
			return text
		},
	}
}

// StripLiteralStep is StripPrefixStep for a fixed marker.
func StripLiteralStep(name, literal string) Step {
	return StripPrefixStep(name, func(Input) string { return literal })
}

// EscapedQuotesStep turns \" left over from quoted serializations into ".
func EscapedQuotesStep() Step {
	return Step{
		Name: StepEscapedQuotes,
		Apply: func(text string, _ Input) string {
			return strings.ReplaceAll(text, `\"`, `"`)
		},
	}
}

// TruncateStep keeps the first maxLength characters of longer texts and
// appends a newline and the ellipsis marker.
func TruncateStep(maxLength int) Step {
	return Step{
		Name: StepTruncate,
		Apply: func(text string, _ Input) string {
			if utf8.RuneCountInString(text) <= maxLength {
				return text
			}
			return string([]rune(text)[:maxLength]) + "\n" + Ellipsis
		},
	}
}

func title(in Input) string { return in.Title }
func topic(in Input) string { return in.Topic }

// DefaultSteps returns the normalization steps in the order they must run.
//
// The title is stripped twice: descriptions often lead with
// "<title> | Video-Clip <title>: ...", and the second occurrence only becomes
// a prefix once the pipe and the marker are gone.
func DefaultSteps(maxLength int) []Step {
	return []Step{
		PlainTextStep(),
		GeoblockingStep(),
		StripPrefixStep(StepTitle, title),
		StripPrefixStep(StepTopic, topic),
		StripLiteralStep(StepPipe, "|"),
		StripLiteralStep(StepVideoClip, "Video-Clip"),
		StripPrefixStep(StepTitleAgain, title),
		StripLiteralStep(StepColon, ":"),
		StripLiteralStep(StepComma, ","),
		StripLiteralStep(StepNewline, "\n"),
		EscapedQuotesStep(),
		TruncateStep(maxLength),
	}
}
