// Package assemble maps decoded raw slide records into canonical slides.
// Every record that reaches this stage becomes a slide; defaults absorb
// whatever the model left out, so assembly has no failure path.
package assemble

import (
	"fmt"
	"strings"

	"github.com/tmarton/slidegen/internal/decode"
	"github.com/tmarton/slidegen/internal/model"
)

var variantCycle = []int{1, 2, 3}

var alignmentCycle = []model.Alignment{
	model.AlignLeft,
	model.AlignCenter,
	model.AlignRight,
}

// Slides converts raw records into canonical slides. Defaults: "Slide N"
// titles, content layout, and variant/alignment values cycled by index so a
// deck full of omissions still covers all three of each.
func Slides(raw []decode.RawSlide) []model.Slide {
	slides := make([]model.Slide, 0, len(raw))

	for i, r := range raw {
		s := model.Slide{
			ID:          model.NewSlideID(),
			Title:       strings.TrimSpace(r.Title),
			Subtitle:    strings.TrimSpace(r.Subtitle),
			Content:     strings.TrimSpace(r.Content),
			ImagePrompt: strings.TrimSpace(r.ImageKeywords),
			Quote:       strings.TrimSpace(r.Quote),
			QuoteAuthor: strings.TrimSpace(r.QuoteAuthor),
			Notes:       strings.TrimSpace(r.Notes),
		}

		if s.Title == "" {
			s.Title = fmt.Sprintf("Slide %d", i+1)
		}

		s.Layout = model.Layout(r.Layout)
		if !s.Layout.Known() {
			s.Layout = model.LayoutContent
		}

		s.LayoutVariant = r.LayoutVariant
		if s.LayoutVariant < 1 || s.LayoutVariant > 3 {
			s.LayoutVariant = variantCycle[i%len(variantCycle)]
		}

		s.TitleAlignment = model.Alignment(r.TitleAlignment)
		switch s.TitleAlignment {
		case model.AlignLeft, model.AlignCenter, model.AlignRight:
		default:
			s.TitleAlignment = alignmentCycle[i%len(alignmentCycle)]
		}

		s.BulletPoints = make([]string, 0, len(r.BulletPoints))
		for _, b := range r.BulletPoints {
			if t := strings.TrimSpace(b); t != "" {
				s.BulletPoints = append(s.BulletPoints, t)
			}
		}

		for _, st := range r.Stats {
			s.Stats = append(s.Stats, model.Stat{
				Value: strings.TrimSpace(string(st.Value)),
				Label: strings.TrimSpace(st.Label),
			})
		}

		slides = append(slides, s)
	}

	return slides
}

// Slide converts a single raw record, for the edit-command flow. The
// position is the slide's index in its deck so defaults cycle the same way.
func Slide(r decode.RawSlide, position int) model.Slide {
	out := Slides([]decode.RawSlide{r})
	s := out[0]
	if r.Title == "" || strings.TrimSpace(r.Title) == "" {
		s.Title = fmt.Sprintf("Slide %d", position+1)
	}
	if r.LayoutVariant < 1 || r.LayoutVariant > 3 {
		s.LayoutVariant = variantCycle[position%len(variantCycle)]
	}
	switch model.Alignment(r.TitleAlignment) {
	case model.AlignLeft, model.AlignCenter, model.AlignRight:
	default:
		s.TitleAlignment = alignmentCycle[position%len(alignmentCycle)]
	}
	return s
}

// Presentation wraps a decoded deck into a presentation with identity.
func Presentation(deck *decode.Deck, topic, theme string) model.Presentation {
	title := strings.TrimSpace(deck.Title)
	if title == "" {
		title = topic
	}
	p := model.NewPresentation(title, strings.TrimSpace(deck.Description), theme)
	return p.WithSlides(Slides(deck.Slides))
}
