// Package theme loads the color/font token sets the renderers consume.
// Tokens are owned elsewhere; this package only reads JSON token files from
// a resources directory and hot-reloads them when they change on disk.
package theme

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Theme is one token set.
type Theme struct {
	Name        string `json:"name"`
	Background  string `json:"background"`
	Surface     string `json:"surface"`
	Primary     string `json:"primary"`
	Accent      string `json:"accent"`
	Text        string `json:"text"`
	MutedText   string `json:"muted_text"`
	HeadingFont string `json:"heading_font"`
	BodyFont    string `json:"body_font"`
}

// Default is used whenever a requested theme is unknown.
var Default = Theme{
	Name:        "default",
	Background:  "#0f172a",
	Surface:     "#1e293b",
	Primary:     "#38bdf8",
	Accent:      "#f472b6",
	Text:        "#f8fafc",
	MutedText:   "#94a3b8",
	HeadingFont: "Georgia, serif",
	BodyFont:    "Helvetica, Arial, sans-serif",
}

// Store holds the loaded themes behind a lock so reloads and lookups can
// interleave.
type Store struct {
	mu     sync.RWMutex
	dir    string
	themes map[string]Theme
}

func NewStore(dir string) *Store {
	s := &Store{
		dir:    dir,
		themes: map[string]Theme{"default": Default},
	}
	s.loadAll()
	return s
}

// Get returns the named theme, falling back to the default token set.
func (s *Store) Get(name string) Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.themes[name]; ok {
		return t
	}
	return Default
}

// Names lists the available themes.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.themes))
	for n := range s.themes {
		names = append(names, n)
	}
	return names
}

func (s *Store) loadAll() {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, f := range files {
		if filepath.Ext(f.Name()) == ".json" {
			s.loadFile(filepath.Join(s.dir, f.Name()))
		}
	}
}

func (s *Store) loadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read theme file %s: %v", path, err)
		return
	}
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		log.Printf("Failed to parse theme file %s: %v", path, err)
		return
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	s.mu.Lock()
	s.themes[t.Name] = t
	s.mu.Unlock()
	log.Printf("Loaded theme %q from %s", t.Name, path)
}

// Watch reloads theme files as they are written until ctx ends.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		return err
	}

	log.Printf("Theme watcher started on %s", s.dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if strings.HasSuffix(strings.ToLower(event.Name), ".json") {
					s.loadFile(event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Theme watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
