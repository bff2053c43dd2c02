// Package decode turns the free-form text returned by an AI completion
// provider into a validated deck structure. Model output is untrusted: it
// arrives wrapped in markdown fences, surrounded by prose, with trailing
// commas, or cut off mid-object by the output-token limit. Decoding is a
// cascade of repair strategies tried in a fixed order; the first one that
// yields parseable JSON wins, and none of them mutate the original input.
package decode

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// RawSlide mirrors the slide shape requested from the model. Everything is
// optional here; the assembler supplies defaults.
type RawSlide struct {
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle"`
	Content        string    `json:"content"`
	BulletPoints   []string  `json:"bulletPoints"`
	Layout         string    `json:"layout"`
	LayoutVariant  int       `json:"layoutVariant"`
	TitleAlignment string    `json:"titleAlignment"`
	ImageKeywords  string    `json:"imageKeywords"`
	Quote          string    `json:"quote"`
	QuoteAuthor    string    `json:"quoteAuthor"`
	Stats          []RawStat `json:"stats"`
	Notes          string    `json:"notes"`
}

type RawStat struct {
	Value FlexString `json:"value"`
	Label string     `json:"label"`
}

// FlexString accepts both JSON strings and numbers. Models frequently emit
// stat values as bare numbers even when asked for strings.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("stat value is neither string nor number: %s", string(data))
}

// Deck is the validated generation result consumed by the assembler.
type Deck struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Slides      []RawSlide `json:"slides"`
}

// ParseError means every strategy in the cascade failed. Raw carries the
// unmodified provider output for diagnostics.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no strategy could parse AI response (%d bytes)", len(e.Raw))
}

// SchemaError means the response parsed but did not describe a presentation.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "AI response is not a presentation: " + e.Reason
}

type strategy func(string) (string, bool)

// strategies lists the repair steps in the order they are tried. Each takes
// the trimmed raw text and returns a candidate JSON string.
var strategies = []strategy{
	asIs,
	unfence,
	firstBalanced,
	sanitize,
	closeTruncated,
}

// Decode runs the cascade and validates the result.
func Decode(raw string) (*Deck, error) {
	candidate, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}

	var deck Deck
	if err := json.Unmarshal(candidate, &deck); err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}
	if len(deck.Slides) == 0 {
		return nil, &SchemaError{Reason: "missing or empty slides array"}
	}
	return &deck, nil
}

// DecodeSlide runs the same cascade for the single-slide edit flow.
func DecodeSlide(raw string) (*RawSlide, error) {
	candidate, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}

	var slide RawSlide
	if err := json.Unmarshal(candidate, &slide); err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}
	return &slide, nil
}

// decodeJSON returns the first strategy output that is syntactically valid
// JSON of an object or array.
func decodeJSON(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)

	for _, s := range strategies {
		candidate, ok := s(trimmed)
		if !ok {
			continue
		}
		if json.Valid([]byte(candidate)) && isContainer(candidate) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, &ParseError{Raw: raw}
}

func isContainer(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// Strategy 1: the trimmed text as it stands.
func asIs(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return s, true
}

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// Strategy 2: extract the interior of a fenced code block.
func unfence(s string) (string, bool) {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	// Unterminated fence: the closing marker itself was truncated away.
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "JSON")
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}

// Strategy 3: the first balanced top-level object or array substring.
// String-aware so braces inside quoted values do not count.
func firstBalanced(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Strategy 4: strip control characters and trailing commas from the
// best-effort substring.
func sanitize(s string) (string, bool) {
	sub := bestEffortSubstring(s)
	if sub == "" {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(sub))
	for _, r := range sub {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return trailingCommaRe.ReplaceAllString(b.String(), "$1"), true
}

// Strategy 5: append the closing brackets a truncated response lost. Counting
// is string-aware; a dangling partial string value is closed first.
func closeTruncated(s string) (string, bool) {
	sub := bestEffortSubstring(s)
	if sub == "" {
		return "", false
	}
	sub = trailingCommaRe.ReplaceAllString(sub, "$1")

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(sub); i++ {
		c := sub[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			stack = append(stack, c)
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) == 0 && !inString {
		return "", false
	}

	var b strings.Builder
	b.WriteString(sub)
	if inString {
		b.WriteByte('"')
	}
	// The cut may land right after a comma; dropping it keeps the closers
	// valid.
	repaired := strings.TrimRight(b.String(), ", \n\t")
	b.Reset()
	b.WriteString(repaired)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true
}

// bestEffortSubstring cuts s down to the region from the first opening
// bracket onward, unfencing first when a fence is present.
func bestEffortSubstring(s string) string {
	if inner, ok := unfence(s); ok {
		s = inner
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	return s[start:]
}
