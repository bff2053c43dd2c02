package assemble

import (
	"testing"

	"github.com/tmarton/slidegen/internal/decode"
	"github.com/tmarton/slidegen/internal/model"
)

func TestSlidesDefaults(t *testing.T) {
	raw := []decode.RawSlide{
		{}, // everything missing
		{Title: "  Real Title  ", Layout: "quote", LayoutVariant: 2, TitleAlignment: "right"},
		{Layout: "hero-banner"}, // unknown layout
	}

	slides := Slides(raw)
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}

	if slides[0].Title != "Slide 1" {
		t.Errorf("blank title not defaulted: %q", slides[0].Title)
	}
	if slides[0].Layout != model.LayoutContent {
		t.Errorf("missing layout not defaulted: %q", slides[0].Layout)
	}
	if slides[0].LayoutVariant < 1 || slides[0].LayoutVariant > 3 {
		t.Errorf("variant out of range: %d", slides[0].LayoutVariant)
	}
	if slides[0].BulletPoints == nil {
		t.Error("bullet points must never be nil")
	}

	if slides[1].Title != "Real Title" {
		t.Errorf("title not trimmed: %q", slides[1].Title)
	}
	if slides[1].Layout != model.LayoutQuote || slides[1].LayoutVariant != 2 || slides[1].TitleAlignment != model.AlignRight {
		t.Errorf("explicit values overridden: %+v", slides[1])
	}

	if slides[2].Layout != model.LayoutContent {
		t.Errorf("unknown layout not normalized: %q", slides[2].Layout)
	}
}

func TestSlidesVariantAndAlignmentCoverage(t *testing.T) {
	raw := make([]decode.RawSlide, 9)
	slides := Slides(raw)

	variants := map[int]bool{}
	aligns := map[model.Alignment]bool{}
	for _, s := range slides {
		variants[s.LayoutVariant] = true
		aligns[s.TitleAlignment] = true
	}
	if len(variants) != 3 {
		t.Errorf("defaulted variants do not cover {1,2,3}: %v", variants)
	}
	if len(aligns) != 3 {
		t.Errorf("defaulted alignments do not cover all three: %v", aligns)
	}
}

func TestSlidesIdempotentModuloIdentity(t *testing.T) {
	raw := []decode.RawSlide{
		{Title: "A", Layout: "stats", Stats: []decode.RawStat{{Value: "1", Label: "one"}, {Value: "2", Label: "two"}}},
		{Title: "B", BulletPoints: []string{"x", "y", "z"}, ImageKeywords: "ocean waves"},
		{},
	}

	first := Slides(raw)
	second := Slides(raw)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID == b.ID {
			t.Errorf("slide %d: identities must be fresh per assembly", i)
		}
		a.ID, b.ID = "", ""
		if a.Title != b.Title || a.Layout != b.Layout || a.LayoutVariant != b.LayoutVariant ||
			a.TitleAlignment != b.TitleAlignment || a.ImagePrompt != b.ImagePrompt {
			t.Errorf("slide %d differs between assemblies:\n%+v\n%+v", i, a, b)
		}
		if len(a.BulletPoints) != len(b.BulletPoints) || len(a.Stats) != len(b.Stats) {
			t.Errorf("slide %d collections differ", i)
		}
	}
}

func TestSlidesPreservesOrder(t *testing.T) {
	raw := []decode.RawSlide{
		{Title: "first", BulletPoints: []string{"b1", "b2", "b3"}},
		{Title: "second", Stats: []decode.RawStat{{Value: "10", Label: "ten"}, {Value: "20", Label: "twenty"}, {Value: "30", Label: "thirty"}}},
	}
	slides := Slides(raw)

	for i, want := range []string{"b1", "b2", "b3"} {
		if slides[0].BulletPoints[i] != want {
			t.Errorf("bullet %d = %q, want %q", i, slides[0].BulletPoints[i], want)
		}
	}
	for i, want := range []string{"10", "20", "30"} {
		if slides[1].Stats[i].Value != want {
			t.Errorf("stat %d = %q, want %q", i, slides[1].Stats[i].Value, want)
		}
	}
}

func TestSlidesLeavesImageURLEmpty(t *testing.T) {
	slides := Slides([]decode.RawSlide{{Title: "A", ImageKeywords: "mountain sunrise"}})
	if slides[0].ImageURL != "" {
		t.Errorf("assembler must not resolve images: %q", slides[0].ImageURL)
	}
	if slides[0].ImagePrompt != "mountain sunrise" {
		t.Errorf("imageKeywords not copied: %q", slides[0].ImagePrompt)
	}
}

func TestPresentationWrapping(t *testing.T) {
	deck := &decode.Deck{Title: "Deck", Description: "About things", Slides: []decode.RawSlide{{Title: "S"}}}
	p := Presentation(deck, "fallback topic", "midnight")

	if p.ID == "" {
		t.Error("presentation needs identity")
	}
	if p.Title != "Deck" || p.Theme != "midnight" || p.AspectRatio != "16:9" {
		t.Errorf("unexpected presentation: %+v", p)
	}
	if len(p.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(p.Slides))
	}

	empty := &decode.Deck{Slides: []decode.RawSlide{{}}}
	p2 := Presentation(empty, "Quantum computing", "default")
	if p2.Title != "Quantum computing" {
		t.Errorf("blank deck title should fall back to topic, got %q", p2.Title)
	}
}
