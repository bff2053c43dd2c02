package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmarton/slidegen/internal/ai"
	"github.com/tmarton/slidegen/internal/decode"
	"github.com/tmarton/slidegen/internal/model"
	"github.com/tmarton/slidegen/internal/prompt"
)

// stubCompleter replies with a canned string or error and remembers the
// prompts it was given.
type stubCompleter struct {
	reply  string
	err    error
	system string
	user   string
	calls  int
}

func (s *stubCompleter) Complete(_ context.Context, system, user string, _ ai.Options) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type memorySaver struct {
	saved []model.Presentation
}

func (m *memorySaver) SavePresentation(p model.Presentation) error {
	m.saved = append(m.saved, p)
	return nil
}

const fiveSlideDeck = `{
  "title": "Renewable Energy",
  "description": "Where power generation is heading",
  "slides": [
    {"title": "Renewable Energy", "layout": "title", "layoutVariant": 1, "titleAlignment": "center"},
    {"title": "Why Now", "layout": "content", "bulletPoints": ["Costs fell 80%", "Grids are ready", "Policy tailwinds"]},
    {"title": "The Numbers", "layout": "stats", "stats": [{"value": "80%", "label": "cost drop"}, {"value": "2x", "label": "capacity growth"}, {"value": "30", "label": "countries past tipping point"}]},
    {"title": "A Voice", "layout": "quote", "quote": "The future is already here.", "quoteAuthor": "W. Gibson"},
    {"title": "Thank You", "layout": "thank-you"}
  ]
}`

func TestGenerateFullRunWithoutImages(t *testing.T) {
	completer := &stubCompleter{reply: fiveSlideDeck}
	saver := &memorySaver{}
	r := &Runner{Completer: completer, Saver: saver}
	m := NewMachine("en")

	req := prompt.GenerateRequest{
		Topic:      "Renewable energy",
		Style:      prompt.StyleProfessional,
		SlideCount: 5,
		Theme:      "default",
	}
	res, err := r.Generate(context.Background(), req, m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if res.Presentation == nil {
		t.Fatal("no presentation in result")
	}
	p := *res.Presentation
	if len(p.Slides) != 5 {
		t.Fatalf("slide count = %d, want 5", len(p.Slides))
	}
	if p.Title != "Renewable Energy" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Slides[0].Layout != model.LayoutTitle {
		t.Errorf("opening slide layout = %q, want title", p.Slides[0].Layout)
	}
	for i, s := range p.Slides {
		if s.ImageURL != "" {
			t.Errorf("slide %d resolved an image in a text-only run: %q", i, s.ImageURL)
		}
	}

	if !m.Succeeded() {
		t.Error("not every step completed")
	}
	for _, s := range res.Steps {
		if s.Status != model.StepCompleted {
			t.Errorf("step %s = %s, want completed", s.ID, s.Status)
		}
	}

	if len(saver.saved) != 1 {
		t.Fatalf("saved %d presentations, want 1", len(saver.saved))
	}
	if saver.saved[0].ID != p.ID {
		t.Error("persisted presentation differs from the returned one")
	}
	if completer.calls != 1 {
		t.Errorf("completer called %d times, want 1", completer.calls)
	}
}

func TestGenerateEmptyCompletionFailsAtGenerateContent(t *testing.T) {
	completer := &stubCompleter{reply: ""}
	saver := &memorySaver{}
	r := &Runner{Completer: completer, Saver: saver}
	m := NewMachine("en")

	res, err := r.Generate(context.Background(), prompt.GenerateRequest{Topic: "anything"}, m)
	if err == nil {
		t.Fatal("expected failure for an empty completion")
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error type %T, want *StepError", err)
	}
	if stepErr.Step != StepGenerate {
		t.Errorf("failed step = %s, want %s", stepErr.Step, StepGenerate)
	}
	var parseErr *decode.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("cause type %T, want *decode.ParseError", stepErr.Err)
	}

	if res.FailedStep != StepGenerate {
		t.Errorf("result failed step = %s", res.FailedStep)
	}
	byID := map[string]model.StepStatus{}
	for _, s := range res.Steps {
		byID[s.ID] = s.Status
	}
	for _, id := range []string{StepEnrich, StepStyle, StepFinalize} {
		if byID[id] != model.StepPending {
			t.Errorf("step %s = %s, want pending", id, byID[id])
		}
	}

	if len(saver.saved) != 0 {
		t.Error("failed run must not persist anything")
	}
}

func TestGenerateProviderErrorWrapsCompletionError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	completer := &stubCompleter{err: cause}
	r := &Runner{Completer: completer}
	m := NewMachine("en")

	_, err := r.Generate(context.Background(), prompt.GenerateRequest{Topic: "anything"}, m)
	if err == nil {
		t.Fatal("expected failure")
	}

	var compErr *CompletionError
	if !errors.As(err, &compErr) {
		t.Fatalf("error chain lacks *CompletionError: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("original provider error lost from the chain")
	}
	if got := m.FailedStep(); got != StepGenerate {
		t.Errorf("failed step = %s, want %s", got, StepGenerate)
	}
}

func TestGenerateMissingTopicFailsAtAnalyze(t *testing.T) {
	r := &Runner{Completer: &stubCompleter{reply: fiveSlideDeck}}
	m := NewMachine("en")

	_, err := r.Generate(context.Background(), prompt.GenerateRequest{}, m)
	if err == nil {
		t.Fatal("expected failure for a blank topic")
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepAnalyze {
		t.Errorf("failure not attributed to %s: %v", StepAnalyze, err)
	}
}

func TestGenerateDefaultsSlideCount(t *testing.T) {
	completer := &stubCompleter{reply: fiveSlideDeck}
	r := &Runner{Completer: completer}
	m := NewMachine("en")

	_, err := r.Generate(context.Background(), prompt.GenerateRequest{Topic: "go"}, m)
	if err != nil {
		t.Fatal(err)
	}
	if want := "exactly 8 slides"; !strings.Contains(completer.user, want) {
		t.Errorf("user prompt lacks %q:\n%s", want, completer.user)
	}
}

func TestApplyEditReplacesOneSlide(t *testing.T) {
	deck, err := decode.Decode(fiveSlideDeck)
	if err != nil {
		t.Fatal(err)
	}
	p := presentationFromDeck(t, deck)
	p.Slides[1].ImageURL = "https://img/why-now.png"
	p.Slides[1].ImageSource = model.ImageStock
	p.Slides[1].ImagePrompt = "wind turbines"

	target := p.Slides[1]
	completer := &stubCompleter{
		reply: `{"title": "Why It Matters", "layout": "content", "bulletPoints": ["New point"], "imageKeywords": "wind turbines"}`,
	}
	r := &Runner{Completer: completer}

	out, err := r.ApplyEdit(context.Background(), p, target.ID, "make the title punchier")
	if err != nil {
		t.Fatalf("ApplyEdit: %v", err)
	}

	got := out.Slides[1]
	if got.ID != target.ID {
		t.Error("edit must preserve slide identity")
	}
	if got.Title != "Why It Matters" {
		t.Errorf("title = %q", got.Title)
	}
	if got.ImageURL != "https://img/why-now.png" {
		t.Errorf("unchanged keywords should keep the resolved image, got %q", got.ImageURL)
	}
	for _, i := range []int{0, 2, 3, 4} {
		if out.Slides[i].Title != p.Slides[i].Title {
			t.Errorf("slide %d modified by an edit of slide 1", i)
		}
	}

	if !strings.Contains(completer.user, "make the title punchier") {
		t.Error("edit command missing from the prompt")
	}
	if !strings.Contains(completer.user, target.Title) {
		t.Error("current slide JSON missing from the prompt")
	}
}

func TestApplyEditDropsImageWhenKeywordsChange(t *testing.T) {
	deck, err := decode.Decode(fiveSlideDeck)
	if err != nil {
		t.Fatal(err)
	}
	p := presentationFromDeck(t, deck)
	p.Slides[1].ImageURL = "https://img/old.png"
	p.Slides[1].ImagePrompt = "wind turbines"

	completer := &stubCompleter{
		reply: `{"title": "Why Now", "layout": "content-image", "imageKeywords": "solar panels at dusk"}`,
	}
	r := &Runner{Completer: completer}

	out, err := r.ApplyEdit(context.Background(), p, p.Slides[1].ID, "switch to solar imagery")
	if err != nil {
		t.Fatal(err)
	}
	if out.Slides[1].ImageURL != "" {
		t.Errorf("stale image kept after keyword change: %q", out.Slides[1].ImageURL)
	}
}

func TestApplyEditUnknownSlide(t *testing.T) {
	deck, err := decode.Decode(fiveSlideDeck)
	if err != nil {
		t.Fatal(err)
	}
	p := presentationFromDeck(t, deck)

	r := &Runner{Completer: &stubCompleter{reply: "{}"}}
	if _, err := r.ApplyEdit(context.Background(), p, "no-such-id", "anything"); err == nil {
		t.Error("expected an error for an unknown slide id")
	}
}

func presentationFromDeck(t *testing.T, deck *decode.Deck) model.Presentation {
	t.Helper()
	r := &Runner{Completer: &stubCompleter{reply: fiveSlideDeck}}
	m := NewMachine("en")
	res, err := r.Generate(context.Background(), prompt.GenerateRequest{Topic: "x", SlideCount: len(deck.Slides)}, m)
	if err != nil {
		t.Fatal(err)
	}
	return *res.Presentation
}
