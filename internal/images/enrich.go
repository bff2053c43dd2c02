package images

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tmarton/slidegen/internal/layout"
	"github.com/tmarton/slidegen/internal/model"
)

// Enricher runs the per-slide image resolution chain.
type Enricher struct {
	Generative Provider
	Stock      Provider
	Guard      QuotaGuard

	// RetryDelay sits between the two generative attempts for one slide.
	// Tests shrink it.
	RetryDelay time.Duration

	// MaxParallel bounds concurrent resolutions. Zero means 4.
	MaxParallel int
}

func NewEnricher(generative, stock Provider, guard QuotaGuard) *Enricher {
	return &Enricher{
		Generative: generative,
		Stock:      stock,
		Guard:      guard,
		RetryDelay: 2 * time.Second,
	}
}

// Progress receives "resolved k of n" style updates while enrichment runs.
type Progress func(resolved, total int)

// eligible reports whether a slide should get imagery at all.
func eligible(s model.Slide) bool {
	return layout.HasMedia(s.Layout) || strings.TrimSpace(s.ImagePrompt) != ""
}

// Enrich resolves imagery for every eligible slide concurrently and returns
// a new slice in the original order. A failed resolution leaves that slide's
// ImageURL empty and never disturbs its siblings; Enrich itself cannot fail.
func (e *Enricher) Enrich(ctx context.Context, slides []model.Slide, includeImages bool, progress Progress) []model.Slide {
	out := make([]model.Slide, len(slides))
	copy(out, slides)

	if !includeImages {
		return out
	}

	var todo []int
	for i, s := range out {
		if eligible(s) && s.ImageURL == "" {
			todo = append(todo, i)
		}
	}
	if len(todo) == 0 {
		return out
	}

	limit := e.MaxParallel
	if limit <= 0 {
		limit = 4
	}

	var resolved int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, idx := range todo {
		idx := idx
		g.Go(func() error {
			url, source := e.resolveOne(gctx, out[idx])
			if url != "" {
				// Each goroutine owns a distinct index; no slice contention.
				out[idx].ImageURL = url
				out[idx].ImageSource = source
			}
			if progress != nil {
				progress(int(atomic.AddInt64(&resolved, 1)), len(todo))
			}
			return nil
		})
	}
	g.Wait() // workers never return errors; failures stay per-slide

	return out
}

// resolveOne walks the provider chain for a single slide: generative while
// quota lasts (one retry after a short delay), then stock search with
// progressively simpler keywords, ending at the slide title.
func (e *Enricher) resolveOne(ctx context.Context, s model.Slide) (string, model.ImageSource) {
	keywords := strings.TrimSpace(s.ImagePrompt)
	if keywords == "" {
		keywords = strings.TrimSpace(s.Title)
	}

	if e.Generative != nil && e.Guard != nil && e.Guard.HasQuota() {
		url, err := e.Generative.Resolve(ctx, keywords)
		if err != nil {
			select {
			case <-ctx.Done():
				return "", ""
			case <-time.After(e.RetryDelay):
			}
			url, err = e.Generative.Resolve(ctx, keywords)
		}
		if err == nil && url != "" {
			e.Guard.Consume()
			return url, model.ImageGenerative
		}
		if err != nil {
			log.Printf("generative image failed for %q, falling back to stock: %v", keywords, err)
		}
	}

	if e.Stock == nil {
		return "", ""
	}

	for _, q := range stockQueries(keywords, s.Title) {
		url, err := e.Stock.Resolve(ctx, q)
		if err != nil {
			log.Printf("stock image lookup %q failed: %v", q, err)
			continue
		}
		if url != "" {
			return url, model.ImageStock
		}
	}
	return "", ""
}

// stockQueries orders the fallback searches: the full phrase, its first few
// words, then the slide title. Duplicates are dropped.
func stockQueries(keywords, title string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q != "" && !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}

	add(keywords)
	if fields := strings.Fields(keywords); len(fields) > 3 {
		add(strings.Join(fields[:3], " "))
	}
	add(title)
	return out
}
