package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/tmarton/slidegen/internal/ai"
	"github.com/tmarton/slidegen/internal/model"
)

// Presentations are stored whole: the slide array travels as one JSONB value
// and every write replaces the complete row. No partial-field updates exist
// at this boundary.

func SavePresentation(db *sql.DB, p model.Presentation) error {
	slides, err := json.Marshal(p.Slides)
	if err != nil {
		return fmt.Errorf("marshal slides: %w", err)
	}

	query := `
		INSERT INTO presentations (id, title, description, theme, aspect_ratio, slides, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			theme = EXCLUDED.theme,
			aspect_ratio = EXCLUDED.aspect_ratio,
			slides = EXCLUDED.slides,
			updated_at = EXCLUDED.updated_at
	`
	_, err = db.Exec(query, p.ID, p.Title, p.Description, p.Theme, p.AspectRatio, slides, p.CreatedAt, p.UpdatedAt)
	return err
}

func GetPresentation(db *sql.DB, id string) (*model.Presentation, error) {
	var p model.Presentation
	var slides []byte
	query := "SELECT id, title, description, theme, aspect_ratio, slides, created_at, updated_at FROM presentations WHERE id = $1"
	err := db.QueryRow(query, id).Scan(&p.ID, &p.Title, &p.Description, &p.Theme, &p.AspectRatio, &slides, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(slides, &p.Slides); err != nil {
		return nil, fmt.Errorf("unmarshal slides of %s: %w", id, err)
	}
	return &p, nil
}

// PresentationSummary is the listing row; slides stay in the database.
type PresentationSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Theme      string    `json:"theme"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ListPresentations(db *sql.DB) ([]PresentationSummary, error) {
	rows, err := db.Query("SELECT id, title, theme, jsonb_array_length(slides), created_at, updated_at FROM presentations ORDER BY updated_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PresentationSummary
	for rows.Next() {
		var s PresentationSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Theme, &s.SlideCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func DeletePresentation(db *sql.DB, id string) error {
	_, err := db.Exec("DELETE FROM presentations WHERE id = $1", id)
	return err
}

// UsageRecorder writes token accounting rows; it satisfies ai.Recorder.
type UsageRecorder struct {
	DB *sql.DB
}

func (r *UsageRecorder) RecordUsage(u ai.Usage) {
	query := `
		INSERT INTO ai_usage (provider, model, prompt_tokens, completion_tokens, total_tokens)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.DB.Exec(query, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens); err != nil {
		log.Printf("Failed to record AI usage: %v", err)
	}
}

func GetTotalTokens(db *sql.DB) (int, error) {
	var total int
	err := db.QueryRow("SELECT COALESCE(SUM(total_tokens), 0) FROM ai_usage").Scan(&total)
	return total, err
}
