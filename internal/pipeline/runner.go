package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tmarton/slidegen/internal/ai"
	"github.com/tmarton/slidegen/internal/assemble"
	"github.com/tmarton/slidegen/internal/decode"
	"github.com/tmarton/slidegen/internal/images"
	"github.com/tmarton/slidegen/internal/model"
	"github.com/tmarton/slidegen/internal/prompt"
)

// CompletionError is the typed failure for a provider that errored or
// answered with nothing usable.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Saver persists a finished presentation. The pipeline writes whole values;
// a nil Saver skips persistence (preview runs).
type Saver interface {
	SavePresentation(p model.Presentation) error
}

// Runner wires the collaborators a generation run needs.
type Runner struct {
	Completer ai.Completer
	Enricher  *images.Enricher
	Saver     Saver

	Temperature     float32
	MaxOutputTokens int32

	// StageDelay makes the bookkeeping steps visible in the UI. Tests set
	// it to zero.
	StageDelay time.Duration
}

// Result is what a finished (or failed) run reports back.
type Result struct {
	Presentation *model.Presentation
	Steps        []model.WorkspaceStep
	FailedStep   string
}

// Generate runs the full staged pipeline. On any step failure the returned
// error is a *StepError, the remaining steps stay pending, and nothing is
// persisted.
func (r *Runner) Generate(ctx context.Context, req prompt.GenerateRequest, m *Machine) (*Result, error) {
	fail := func(step string, err error) (*Result, error) {
		stepErr := m.Fail(step, err)
		log.Printf("Pipeline halted at %s: %v", step, err)
		return &Result{Steps: m.Snapshot(), FailedStep: step}, stepErr
	}

	// The first three stages are presentation-side bookkeeping; they pace
	// the visible run and validate the request.
	if err := m.Start(StepAnalyze); err != nil {
		return fail(StepAnalyze, err)
	}
	if req.Topic == "" {
		return fail(StepAnalyze, errors.New("topic is required"))
	}
	if req.SlideCount <= 0 {
		req.SlideCount = 8
	}
	m.Detail(StepAnalyze, "topic: %s", req.Topic)
	r.pause(ctx)
	m.Complete(StepAnalyze)

	if err := m.Start(StepResearch); err != nil {
		return fail(StepResearch, err)
	}
	m.Detail(StepResearch, "style: %s, slides: %d", req.Style, req.SlideCount)
	r.pause(ctx)
	m.Complete(StepResearch)

	if err := m.Start(StepStructure); err != nil {
		return fail(StepStructure, err)
	}
	system, user := prompt.Build(req)
	m.Detail(StepStructure, "prompt compiled (%d + %d chars)", len(system), len(user))
	r.pause(ctx)
	m.Complete(StepStructure)

	// generate-content: the one AI completion plus the decoder cascade.
	if err := m.Start(StepGenerate); err != nil {
		return fail(StepGenerate, err)
	}
	raw, err := r.Completer.Complete(ctx, system, user, ai.Options{
		Temperature:     r.Temperature,
		MaxOutputTokens: r.MaxOutputTokens,
	})
	if err != nil {
		// A failed or empty completion decodes as "", which fails the
		// cascade deterministically; surface the transport cause instead.
		m.Detail(StepGenerate, "completion failed: %v", err)
		return fail(StepGenerate, &CompletionError{Err: err})
	}
	m.Detail(StepGenerate, "received %d bytes from provider", len(raw))

	deck, err := decode.Decode(raw)
	if err != nil {
		return fail(StepGenerate, err)
	}
	m.Detail(StepGenerate, "decoded %d slides", len(deck.Slides))
	m.Complete(StepGenerate)

	p := assemble.Presentation(deck, req.Topic, req.Theme)

	// enrich-images: concurrent underneath, sequential from the outside.
	if err := m.Start(StepEnrich); err != nil {
		return fail(StepEnrich, err)
	}
	if r.Enricher != nil && req.IncludeImages {
		slides := r.Enricher.Enrich(ctx, p.Slides, true, func(k, n int) {
			m.Detail(StepEnrich, "resolved %d of %d images", k, n)
		})
		p = p.WithSlides(slides)
	} else {
		m.Detail(StepEnrich, "images disabled for this run")
	}
	m.Complete(StepEnrich)

	if err := m.Start(StepStyle); err != nil {
		return fail(StepStyle, err)
	}
	if req.Theme != "" {
		m.Detail(StepStyle, "theme: %s", req.Theme)
	}
	r.pause(ctx)
	m.Complete(StepStyle)

	if err := m.Start(StepFinalize); err != nil {
		return fail(StepFinalize, err)
	}
	if r.Saver != nil {
		if err := r.Saver.SavePresentation(p); err != nil {
			return fail(StepFinalize, err)
		}
		m.Detail(StepFinalize, "saved presentation %s", p.ID)
	}
	m.Complete(StepFinalize)

	return &Result{Presentation: &p, Steps: m.Snapshot()}, nil
}

// ApplyEdit runs the single-slide edit flow: same decoder cascade, smaller
// shape, whole-slide replacement on success.
func (r *Runner) ApplyEdit(ctx context.Context, p model.Presentation, slideID, command string) (*model.Presentation, error) {
	position := -1
	var current model.Slide
	for i, s := range p.Slides {
		if s.ID == slideID {
			position = i
			current = s
			break
		}
	}
	if position < 0 {
		return nil, fmt.Errorf("slide %s not found", slideID)
	}

	currentJSON, err := marshalSlide(current)
	if err != nil {
		return nil, err
	}

	system, user := prompt.BuildEdit(currentJSON, command)
	raw, err := r.Completer.Complete(ctx, system, user, ai.Options{
		Temperature:     r.Temperature,
		MaxOutputTokens: r.MaxOutputTokens,
	})
	if err != nil {
		return nil, &CompletionError{Err: err}
	}

	rawSlide, err := decode.DecodeSlide(raw)
	if err != nil {
		return nil, err
	}

	edited := assemble.Slide(*rawSlide, position)
	// Keep the already-resolved image unless the edit changed the keywords.
	if edited.ImageURL == "" && edited.ImagePrompt == current.ImagePrompt {
		edited.ImageURL = current.ImageURL
		edited.ImageSource = current.ImageSource
	}

	out := p.WithSlideReplaced(slideID, edited)
	return &out, nil
}

func (r *Runner) pause(ctx context.Context) {
	if r.StageDelay <= 0 {
		return
	}
	select {
	case <-time.After(r.StageDelay):
	case <-ctx.Done():
	}
}
