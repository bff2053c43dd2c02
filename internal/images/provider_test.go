package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerativeProviderResolve(t *testing.T) {
	var gotAuth, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		gotPrompt = body.Prompt
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn/generated.png"})
	}))
	defer srv.Close()

	p := NewGenerativeProvider(srv.URL, "secret")
	url, err := p.Resolve(context.Background(), "red canyon at dawn")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if url != "https://cdn/generated.png" {
		t.Errorf("url = %q", url)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotPrompt != "red canyon at dawn" {
		t.Errorf("prompt = %q", gotPrompt)
	}
}

func TestGenerativeProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewGenerativeProvider(srv.URL, "")
	if _, err := p.Resolve(context.Background(), "anything"); err == nil {
		t.Error("non-200 status must surface as an error")
	}
}

func TestGenerativeProviderUnconfigured(t *testing.T) {
	p := NewGenerativeProvider("", "")
	url, err := p.Resolve(context.Background(), "anything")
	if err != nil || url != "" {
		t.Errorf("unconfigured provider should be a silent no-result, got (%q, %v)", url, err)
	}
}

func TestStockProviderResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "city skyline" {
			t.Errorf("query = %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "1" {
			t.Errorf("per_page = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "apikey" {
			t.Errorf("auth header = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"photos": []map[string]interface{}{
				{"src": map[string]string{"large": "https://stock/skyline.jpg"}},
			},
		})
	}))
	defer srv.Close()

	p := NewStockProvider(srv.URL, "apikey")
	url, err := p.Resolve(context.Background(), "city skyline")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if url != "https://stock/skyline.jpg" {
		t.Errorf("url = %q", url)
	}
}

func TestStockProviderNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"photos": []interface{}{}})
	}))
	defer srv.Close()

	p := NewStockProvider(srv.URL, "")
	url, err := p.Resolve(context.Background(), "nothing matches this")
	if err != nil {
		t.Fatalf("empty result set is not an error: %v", err)
	}
	if url != "" {
		t.Errorf("url = %q, want empty", url)
	}
}

func TestCountingGuard(t *testing.T) {
	g := NewCountingGuard(2)
	if !g.HasQuota() {
		t.Fatal("fresh guard should have quota")
	}
	g.Consume()
	g.Consume()
	if g.HasQuota() {
		t.Error("guard should be exhausted after the limit")
	}
	if g.Used() != 2 {
		t.Errorf("Used = %d, want 2", g.Used())
	}

	if NewCountingGuard(0).HasQuota() {
		t.Error("zero-limit guard must never grant quota")
	}
}
