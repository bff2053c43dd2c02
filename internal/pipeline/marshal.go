package pipeline

import (
	"encoding/json"

	"github.com/tmarton/slidegen/internal/model"
)

// editSlide is the prompt-facing shape of a slide, matching the field names
// the generation prompt pins down.
type editSlide struct {
	Title          string       `json:"title"`
	Subtitle       string       `json:"subtitle,omitempty"`
	Content        string       `json:"content,omitempty"`
	BulletPoints   []string     `json:"bulletPoints,omitempty"`
	Layout         string       `json:"layout"`
	LayoutVariant  int          `json:"layoutVariant"`
	TitleAlignment string       `json:"titleAlignment"`
	ImageKeywords  string       `json:"imageKeywords,omitempty"`
	Quote          string       `json:"quote,omitempty"`
	QuoteAuthor    string       `json:"quoteAuthor,omitempty"`
	Stats          []model.Stat `json:"stats,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

func marshalSlide(s model.Slide) (string, error) {
	out, err := json.MarshalIndent(editSlide{
		Title:          s.Title,
		Subtitle:       s.Subtitle,
		Content:        s.Content,
		BulletPoints:   s.BulletPoints,
		Layout:         string(s.Layout),
		LayoutVariant:  s.LayoutVariant,
		TitleAlignment: string(s.TitleAlignment),
		ImageKeywords:  s.ImagePrompt,
		Quote:          s.Quote,
		QuoteAuthor:    s.QuoteAuthor,
		Stats:          s.Stats,
		Notes:          s.Notes,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
