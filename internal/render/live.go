// Package render implements the live and static-export targets. Each target
// composes slides on its own; the only thing they share is the layout
// contract in internal/layout, which their tests validate against.
package render

import (
	"fmt"

	"github.com/tmarton/slidegen/internal/layout"
	"github.com/tmarton/slidegen/internal/model"
	"github.com/tmarton/slidegen/internal/theme"
)

// ZoneContent is one filled zone of a live composition. Placeholder marks
// zones rendered with their documented fallback instead of real content.
type ZoneContent struct {
	Zone        layout.Zone        `json:"zone"`
	Text        string             `json:"text,omitempty"`
	Items       []string           `json:"items,omitempty"`
	Stats       []model.Stat       `json:"stats,omitempty"`
	StatColumns int                `json:"stat_columns,omitempty"`
	ImageURL    string             `json:"image_url,omitempty"`
	Placeholder layout.Placeholder `json:"placeholder,omitempty"`
}

// Composition is one slide arranged for the interactive editor.
type Composition struct {
	SlideID    string          `json:"slide_id"`
	Layout     model.Layout    `json:"layout"`
	Variant    int             `json:"variant"`
	Alignment  model.Alignment `json:"alignment"`
	Background string          `json:"background,omitempty"`
	Transition string          `json:"transition,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Zones      []ZoneContent   `json:"zones"`
}

// LiveView is the full editor payload: compositions in deck order plus the
// navigation state the editor keeps between requests.
type LiveView struct {
	PresentationID string        `json:"presentation_id"`
	Title          string        `json:"title"`
	Theme          theme.Theme   `json:"theme"`
	AspectRatio    string        `json:"aspect_ratio"`
	Current        int           `json:"current"`
	HasPrev        bool          `json:"has_prev"`
	HasNext        bool          `json:"has_next"`
	Slides         []Composition `json:"slides"`
}

// Live renders the whole deck for the editor. current is clamped into range.
func Live(p model.Presentation, t theme.Theme, current int) LiveView {
	if current < 0 {
		current = 0
	}
	if n := len(p.Slides); n > 0 && current >= n {
		current = n - 1
	}

	view := LiveView{
		PresentationID: p.ID,
		Title:          p.Title,
		Theme:          t,
		AspectRatio:    p.AspectRatio,
		Current:        current,
		HasPrev:        current > 0,
		HasNext:        current < len(p.Slides)-1,
	}
	for _, s := range p.Slides {
		view.Slides = append(view.Slides, Compose(s))
	}
	return view
}

// Compose arranges a single slide according to the layout contract. Missing
// optional content becomes a placeholder zone; missing required text zones
// fall back to empty text rather than an error, so a half-built slide still
// renders.
func Compose(s model.Slide) Composition {
	c := Composition{
		SlideID:    s.ID,
		Layout:     s.Layout,
		Variant:    s.LayoutVariant,
		Alignment:  s.TitleAlignment,
		Background: s.Background,
		Transition: s.Transition,
		Notes:      s.Notes,
	}

	for _, spec := range layout.Zones(s.Layout) {
		zone, ok := fillZone(spec, s)
		if ok {
			c.Zones = append(c.Zones, zone)
		}
	}
	return c
}

// SplitColumns divides the bullet list across the two columns of the
// two-column layout, left half first. Order within each column is preserved.
func SplitColumns(s model.Slide) (left, right []string) {
	mid := (len(s.BulletPoints) + 1) / 2
	return s.BulletPoints[:mid], s.BulletPoints[mid:]
}

func fillZone(spec layout.ZoneSpec, s model.Slide) (ZoneContent, bool) {
	z := ZoneContent{Zone: spec.Zone}

	switch spec.Zone {
	case layout.ZoneTitle:
		z.Text = s.Title
	case layout.ZoneSubtitle:
		z.Text = s.Subtitle
	case layout.ZoneBody:
		z.Text = s.Content
	case layout.ZoneBullets:
		z.Items = s.BulletPoints
	case layout.ZoneMedia:
		z.ImageURL = s.ImageURL
	case layout.ZoneColumnLeft:
		left, _ := SplitColumns(s)
		z.Text = s.Content
		z.Items = left
	case layout.ZoneColumnRight:
		_, right := SplitColumns(s)
		z.Text = s.Subtitle
		z.Items = right
	case layout.ZoneQuoteMark:
		z.Text = "“"
	case layout.ZoneQuoteText:
		z.Text = s.Quote
	case layout.ZoneAttribution:
		if s.QuoteAuthor != "" {
			z.Text = fmt.Sprintf("— %s", s.QuoteAuthor)
		}
	case layout.ZoneStats:
		z.Stats = s.Stats
		z.StatColumns = layout.StatColumns(len(s.Stats))
	case layout.ZoneIcon:
		z.Text = "✦"
	case layout.ZoneContacts:
		z.Items = nil // contact chips come from the session profile, not the slide
	}

	if z.Text == "" && len(z.Items) == 0 && len(z.Stats) == 0 && z.ImageURL == "" {
		switch {
		case spec.Required:
			// Required zones always render, even empty; the editor shows an
			// inline editing affordance there.
			return z, true
		case spec.Placeholder == layout.PlaceholderOmit:
			return z, false
		default:
			z.Placeholder = spec.Placeholder
			return z, true
		}
	}
	return z, true
}
