package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/tmarton/slidegen/internal/config"
	"github.com/tmarton/slidegen/internal/database"
	"github.com/tmarton/slidegen/internal/decode"
	"github.com/tmarton/slidegen/internal/i18n"
	"github.com/tmarton/slidegen/internal/model"
	"github.com/tmarton/slidegen/internal/pipeline"
	"github.com/tmarton/slidegen/internal/pptx"
	"github.com/tmarton/slidegen/internal/printout"
	"github.com/tmarton/slidegen/internal/prompt"
	"github.com/tmarton/slidegen/internal/render"
	"github.com/tmarton/slidegen/internal/theme"
)

type server struct {
	cfg    *config.Config
	db     *sql.DB
	themes *theme.Store
	runner *pipeline.Runner

	runsMu sync.Mutex
	runs   map[string]*pipeline.Machine
}

type dbSaver struct {
	db *sql.DB
}

func (s *dbSaver) SavePresentation(p model.Presentation) error {
	return database.SavePresentation(s.db, p)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

type errorBody struct {
	Error      string                `json:"error"`
	FailedStep string                `json:"failed_step,omitempty"`
	Steps      []model.WorkspaceStep `json:"steps,omitempty"`
}

type generateRequest struct {
	Topic         string `json:"topic"`
	Taxonomy      string `json:"taxonomy"`
	Style         string `json:"style"`
	SlideCount    int    `json:"slide_count"`
	IncludeImages bool   `json:"include_images"`
	Theme         string `json:"theme"`
	RunID         string `json:"run_id"`
}

func (s *server) registerRun(id string, m *pipeline.Machine) {
	if id == "" {
		return
	}
	s.runsMu.Lock()
	if s.runs == nil {
		s.runs = map[string]*pipeline.Machine{}
	}
	s.runs[id] = m
	s.runsMu.Unlock()
}

func (s *server) lookupRun(id string) *pipeline.Machine {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()
	return s.runs[id]
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	if req.Theme == "" {
		req.Theme = s.cfg.Application.Theme
	}

	m := pipeline.NewMachine(i18n.GetLang(r))
	s.registerRun(req.RunID, m)

	result, err := s.runner.Generate(r.Context(), prompt.GenerateRequest{
		Topic:         req.Topic,
		Taxonomy:      req.Taxonomy,
		Style:         prompt.Style(req.Style),
		SlideCount:    req.SlideCount,
		IncludeImages: req.IncludeImages,
		Theme:         req.Theme,
	}, m)
	if err != nil {
		status := http.StatusBadGateway
		var stepErr *pipeline.StepError
		if errors.As(err, &stepErr) && stepErr.Step == pipeline.StepAnalyze {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorBody{
			Error:      userMessage(err),
			FailedStep: result.FailedStep,
			Steps:      result.Steps,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"presentation": result.Presentation,
		"steps":        result.Steps,
	})
}

// userMessage maps the error taxonomy to the wording surfaced to callers.
func userMessage(err error) string {
	var parseErr *decode.ParseError
	var schemaErr *decode.SchemaError
	var complErr *pipeline.CompletionError
	switch {
	case errors.As(err, &parseErr):
		return "AI returned an unusable response"
	case errors.As(err, &schemaErr):
		return "AI did not produce a presentation"
	case errors.As(err, &complErr):
		return "generation failed, retry"
	default:
		return err.Error()
	}
}

func (s *server) loadPresentation(w http.ResponseWriter, r *http.Request) *model.Presentation {
	id := mux.Vars(r)["id"]
	p, err := database.GetPresentation(s.db, id)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "presentation not found"})
		return nil
	}
	if err != nil {
		log.Printf("Failed to load presentation %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "storage error"})
		return nil
	}
	return p
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := database.ListPresentations(s.db)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "storage error"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	if p := s.loadPresentation(w, r); p != nil {
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *server) handlePut(w http.ResponseWriter, r *http.Request) {
	var p model.Presentation
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid presentation body"})
		return
	}
	p.ID = mux.Vars(r)["id"]
	if err := database.SavePresentation(s.db, p); err != nil {
		log.Printf("Failed to save presentation %s: %v", p.ID, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "storage error"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := database.DeletePresentation(s.db, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "storage error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	p := s.loadPresentation(w, r)
	if p == nil {
		return
	}
	current := 0
	fmt.Sscanf(r.URL.Query().Get("slide"), "%d", &current)
	view := render.Live(*p, s.themes.Get(p.Theme), current)
	writeJSON(w, http.StatusOK, view)
}

type editRequest struct {
	Command string `json:"command"`
}

func (s *server) handleEditSlide(w http.ResponseWriter, r *http.Request) {
	p := s.loadPresentation(w, r)
	if p == nil {
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "command is required"})
		return
	}

	edited, err := s.runner.ApplyEdit(r.Context(), *p, mux.Vars(r)["sid"], req.Command)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: userMessage(err)})
		return
	}
	if err := database.SavePresentation(s.db, *edited); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "storage error"})
		return
	}
	writeJSON(w, http.StatusOK, edited)
}

func (s *server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	p := s.loadPresentation(w, r)
	if p == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Title+".html"))
	if err := render.HTML(w, *p, s.themes.Get(p.Theme)); err != nil {
		log.Printf("HTML export of %s failed: %v", p.ID, err)
	}
}

func (s *server) handleExportPPTX(w http.ResponseWriter, r *http.Request) {
	p := s.loadPresentation(w, r)
	if p == nil {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Title+".pptx"))
	if err := pptx.NewWriter().Write(r.Context(), w, *p, s.themes.Get(p.Theme)); err != nil {
		log.Printf("PPTX export of %s failed: %v", p.ID, err)
	}
}

func (s *server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	p := s.loadPresentation(w, r)
	if p == nil {
		return
	}

	exportDir := s.cfg.Application.Storage.Exports
	deckPath := filepath.Join(exportDir, p.ID+".pptx")
	f, err := os.Create(deckPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "export storage error"})
		return
	}
	if err := pptx.NewWriter().Write(r.Context(), f, *p, s.themes.Get(p.Theme)); err != nil {
		f.Close()
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "deck build failed"})
		return
	}
	f.Close()

	pdfPath, err := printout.PDF(r.Context(), deckPath, exportDir)
	if err != nil {
		log.Printf("PDF export of %s failed: %v", p.ID, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "pdf conversion failed"})
		return
	}

	// Thumbnails are a side product; failure does not block the download.
	thumbDir := filepath.Join(s.cfg.Application.Storage.Thumbnails, p.ID)
	if _, err := printout.Pages(r.Context(), pdfPath, thumbDir); err != nil {
		log.Printf("Thumbnail extraction for %s failed: %v", p.ID, err)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Title+".pdf"))
	http.ServeFile(w, r, pdfPath)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleProgress streams workspace step snapshots for a run until the run
// reaches a terminal state or the client goes away.
func (s *server) handleProgress(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["run"]
	m := s.lookupRun(runID)
	if m == nil {
		http.Error(w, "unknown run", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates := m.Subscribe()
	if err := conn.WriteJSON(m.Snapshot()); err != nil {
		return
	}
	for steps := range updates {
		if err := conn.WriteJSON(steps); err != nil {
			return
		}
		if m.Failed() || m.Succeeded() {
			return
		}
	}
}
