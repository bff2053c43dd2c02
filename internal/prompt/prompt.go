// Package prompt compiles the system/user instruction pair sent to the AI
// completion provider. Building the pair is a pure function of the request;
// nothing here talks to the network.
package prompt

import (
	"fmt"
	"strings"
)

type Style string

const (
	StyleProfessional Style = "professional"
	StyleCreative     Style = "creative"
	StyleMinimal      Style = "minimal"
	StyleAcademic     Style = "academic"
)

var styleDirectives = map[Style]string{
	StyleProfessional: "Use a confident business tone with concrete, actionable points.",
	StyleCreative:     "Use vivid language, bold metaphors and unexpected angles.",
	StyleMinimal:      "Keep every slide sparse: short phrases, no filler, lots of breathing room.",
	StyleAcademic:     "Use precise terminology, cite concepts properly and build arguments stepwise.",
}

// GenerateRequest carries everything the compiler needs to produce a prompt
// pair for a full presentation.
type GenerateRequest struct {
	Topic         string
	Taxonomy      string
	Style         Style
	SlideCount    int
	IncludeImages bool
	Theme         string
}

const systemShape = `You are a presentation designer. Respond with a single JSON object and nothing else: no prose, no markdown fences.

The object has this shape:
{
  "title": string,
  "description": string,
  "slides": [
    {
      "title": string,
      "subtitle": string (optional),
      "content": string (optional, one short paragraph),
      "bulletPoints": [string] (optional),
      "layout": one of "title" | "content" | "content-image" | "image-content" | "two-column" | "full-image" | "quote" | "stats" | "thank-you",
      "layoutVariant": 1 | 2 | 3,
      "titleAlignment": "left" | "center" | "right",
      "imageKeywords": string (optional, 2-5 search words for the slide's imagery),
      "quote": string (optional),
      "quoteAuthor": string (optional),
      "stats": [{"value": string, "label": string}] (optional, 3-4 entries),
      "notes": string (optional, speaker notes)
    }
  ]
}`

// Build returns the system and user instruction for a generation request.
func Build(req GenerateRequest) (system, user string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a presentation about %q with exactly %d slides.\n", req.Topic, req.SlideCount)
	if req.Taxonomy != "" {
		fmt.Fprintf(&b, "Subject area: %s.\n", req.Taxonomy)
	}
	if d, ok := styleDirectives[req.Style]; ok {
		b.WriteString(d)
		b.WriteString("\n")
	}

	b.WriteString("Requirements:\n")
	b.WriteString("- Build a narrative arc: open with a \"title\" layout slide, close with a \"thank-you\" layout slide.\n")
	b.WriteString("- Vary the layouts; do not use the same layout on consecutive slides where avoidable.\n")
	b.WriteString("- Include at least one \"quote\" slide and at least one \"stats\" slide with 3-4 stats.\n")
	if req.IncludeImages {
		b.WriteString("- Give at least 60% of the slides imageKeywords describing a fitting photo or illustration.\n")
	} else {
		b.WriteString("- Omit imageKeywords; this deck is text only.\n")
	}
	b.WriteString("- Keep bullet lists to 3-5 points and every point under 12 words.\n")

	return systemShape, b.String()
}

const editShape = `You are a presentation designer editing one slide. Respond with a single JSON object describing the revised slide and nothing else: no prose, no markdown fences. Use the same slide shape as before: title, subtitle, content, bulletPoints, layout, layoutVariant, titleAlignment, imageKeywords, quote, quoteAuthor, stats, notes.`

// BuildEdit returns the prompt pair for a natural-language edit of a single
// slide. The current slide is passed as JSON so the model revises rather
// than reinvents.
func BuildEdit(currentSlideJSON, command string) (system, user string) {
	var b strings.Builder
	b.WriteString("Current slide:\n")
	b.WriteString(currentSlideJSON)
	b.WriteString("\n\nApply this instruction and return the full revised slide object:\n")
	b.WriteString(command)
	return editShape, b.String()
}
