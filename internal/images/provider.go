// Package images resolves per-slide imagery through a provider chain: a
// quota-limited generative provider with a stock-search fallback.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Provider resolves keywords to an image URL. An empty URL with a nil error
// means the provider had no result; that is not a failure.
type Provider interface {
	Resolve(ctx context.Context, keywords string) (string, error)
}

// QuotaGuard controls how many generative-image calls a session may spend.
// Consume is called once per successful image, never per attempt.
type QuotaGuard interface {
	HasQuota() bool
	Consume()
}

// CountingGuard is a session-scoped QuotaGuard over a fixed allowance.
type CountingGuard struct {
	mu    sync.Mutex
	used  int
	limit int
}

func NewCountingGuard(limit int) *CountingGuard {
	return &CountingGuard{limit: limit}
}

func (g *CountingGuard) HasQuota() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.used < g.limit
}

func (g *CountingGuard) Consume() {
	g.mu.Lock()
	g.used++
	g.mu.Unlock()
}

// Used returns how many generative images the session has spent.
func (g *CountingGuard) Used() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.used
}

// GenerativeProvider calls an image-generation HTTP endpoint.
type GenerativeProvider struct {
	Endpoint string
	Key      string
	Client   *http.Client
}

func NewGenerativeProvider(endpoint, key string) *GenerativeProvider {
	return &GenerativeProvider{
		Endpoint: endpoint,
		Key:      key,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GenerativeProvider) Resolve(ctx context.Context, keywords string) (string, error) {
	if p.Endpoint == "" {
		return "", nil
	}

	body, _ := json.Marshal(map[string]string{"prompt": keywords})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.Key != "" {
		req.Header.Set("Authorization", "Bearer "+p.Key)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generative image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generative image provider returned %d", resp.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generative response: %w", err)
	}
	return out.URL, nil
}

// StockProvider searches a Pexels-style photo API.
type StockProvider struct {
	Endpoint string
	Key      string
	Client   *http.Client
}

func NewStockProvider(endpoint, key string) *StockProvider {
	return &StockProvider{
		Endpoint: endpoint,
		Key:      key,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *StockProvider) Resolve(ctx context.Context, keywords string) (string, error) {
	if p.Endpoint == "" || keywords == "" {
		return "", nil
	}

	u, err := url.Parse(p.Endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("query", keywords)
	q.Set("per_page", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	if p.Key != "" {
		req.Header.Set("Authorization", p.Key)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("stock image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stock image provider returned %d", resp.StatusCode)
	}

	var out struct {
		Photos []struct {
			Src struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode stock response: %w", err)
	}
	if len(out.Photos) == 0 {
		return "", nil
	}
	return out.Photos[0].Src.Large, nil
}
