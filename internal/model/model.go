package model

import (
	"time"

	"github.com/google/uuid"
)

// Layout is the slide archetype. It decides which content zones a slide has;
// the zone table itself lives in internal/layout.
type Layout string

const (
	LayoutTitle        Layout = "title"
	LayoutContent      Layout = "content"
	LayoutContentImage Layout = "content-image"
	LayoutImageContent Layout = "image-content"
	LayoutTwoColumn    Layout = "two-column"
	LayoutFullImage    Layout = "full-image"
	LayoutQuote        Layout = "quote"
	LayoutStats        Layout = "stats"
	LayoutThankYou     Layout = "thank-you"
)

// Layouts lists every known layout in a stable order.
var Layouts = []Layout{
	LayoutTitle,
	LayoutContent,
	LayoutContentImage,
	LayoutImageContent,
	LayoutTwoColumn,
	LayoutFullImage,
	LayoutQuote,
	LayoutStats,
	LayoutThankYou,
}

// Known reports whether l is one of the defined layouts.
func (l Layout) Known() bool {
	for _, k := range Layouts {
		if l == k {
			return true
		}
	}
	return false
}

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type ImageSource string

const (
	ImageGenerative ImageSource = "generative"
	ImageStock      ImageSource = "stock"
)

// Stat is one value/label card on a stats slide. Order inside Slide.Stats is
// meaningful and must survive every render target untouched.
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Slide struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Subtitle       string      `json:"subtitle,omitempty"`
	Content        string      `json:"content,omitempty"`
	BulletPoints   []string    `json:"bullet_points"`
	Layout         Layout      `json:"layout"`
	LayoutVariant  int         `json:"layout_variant"`
	TitleAlignment Alignment   `json:"title_alignment"`
	ImageURL       string      `json:"image_url,omitempty"`
	ImagePrompt    string      `json:"image_prompt,omitempty"`
	ImageSource    ImageSource `json:"image_source,omitempty"`
	Quote          string      `json:"quote,omitempty"`
	QuoteAuthor    string      `json:"quote_author,omitempty"`
	Stats          []Stat      `json:"stats,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	Background     string      `json:"background,omitempty"`
	Transition     string      `json:"transition,omitempty"`
}

type Presentation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slides      []Slide   `json:"slides"`
	Theme       string    `json:"theme"`
	AspectRatio string    `json:"aspect_ratio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPresentation creates an empty presentation with a fresh identity.
func NewPresentation(title, description, theme string) Presentation {
	now := time.Now().UTC()
	return Presentation{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Theme:       theme,
		AspectRatio: "16:9",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithSlides returns a copy of p carrying the given slide sequence. All slide
// mutation goes through whole-array replacement; callers never edit
// p.Slides in place.
func (p Presentation) WithSlides(slides []Slide) Presentation {
	out := p
	out.Slides = make([]Slide, len(slides))
	copy(out.Slides, slides)
	out.UpdatedAt = time.Now().UTC()
	return out
}

// WithSlideReplaced returns a copy of p where the slide with the given id is
// swapped for s. Unknown ids leave the deck unchanged.
func (p Presentation) WithSlideReplaced(id string, s Slide) Presentation {
	slides := make([]Slide, len(p.Slides))
	copy(slides, p.Slides)
	for i := range slides {
		if slides[i].ID == id {
			s.ID = id
			slides[i] = s
			break
		}
	}
	return p.WithSlides(slides)
}

// NewSlideID returns a fresh slide identity.
func NewSlideID() string {
	return uuid.NewString()
}

type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepError      StepStatus = "error"
)

// WorkspaceStep is one named stage of the visible generation pipeline.
// Details are append-only progress lines written while the step runs.
type WorkspaceStep struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
	Details     []string   `json:"details,omitempty"`
}
