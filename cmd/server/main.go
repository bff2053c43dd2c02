package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/tmarton/slidegen/internal/ai"
	"github.com/tmarton/slidegen/internal/config"
	"github.com/tmarton/slidegen/internal/database"
	"github.com/tmarton/slidegen/internal/i18n"
	"github.com/tmarton/slidegen/internal/images"
	"github.com/tmarton/slidegen/internal/pipeline"
	"github.com/tmarton/slidegen/internal/theme"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	i18n.Init()

	db, err := database.NewConnection(cfg.Database.GetConnectStr())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal(err)
	}

	// Initialize Directories
	os.MkdirAll(cfg.Application.Storage.Exports, 0755)
	os.MkdirAll(cfg.Application.Storage.Thumbnails, 0755)

	themes := theme.NewStore(cfg.Application.ThemesDir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := themes.Watch(ctx); err != nil {
			log.Printf("Theme watcher stopped: %v", err)
		}
	}()

	srv := newServer(cfg, db, themes)

	r := mux.NewRouter()
	r.HandleFunc("/api/presentations/generate", srv.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/presentations", srv.handleList).Methods(http.MethodGet)
	r.HandleFunc("/api/presentations/{id}", srv.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/presentations/{id}", srv.handlePut).Methods(http.MethodPut)
	r.HandleFunc("/api/presentations/{id}", srv.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/api/presentations/{id}/live", srv.handleLive).Methods(http.MethodGet)
	r.HandleFunc("/api/presentations/{id}/slides/{sid}/edit", srv.handleEditSlide).Methods(http.MethodPost)
	r.HandleFunc("/api/presentations/{id}/export/html", srv.handleExportHTML).Methods(http.MethodGet)
	r.HandleFunc("/api/presentations/{id}/export/pptx", srv.handleExportPPTX).Methods(http.MethodGet)
	r.HandleFunc("/api/presentations/{id}/export/pdf", srv.handleExportPDF).Methods(http.MethodGet)
	r.HandleFunc("/ws/progress/{run}", srv.handleProgress)
	r.PathPrefix("/thumbnails/").Handler(http.StripPrefix("/thumbnails/",
		http.FileServer(http.Dir(cfg.Application.Storage.Thumbnails))))

	port := cfg.Application.Port
	fmt.Printf("slidegen starting on http://localhost:%d\n", port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), r))
}

func newServer(cfg *config.Config, db *sql.DB, themes *theme.Store) *server {
	recorder := &database.UsageRecorder{DB: db}
	completer := ai.NewClient(cfg.AI.Active(), recorder)

	enricher := images.NewEnricher(
		images.NewGenerativeProvider(cfg.Images.GenerativeEndpoint, cfg.Images.GenerativeKey),
		images.NewStockProvider(cfg.Images.StockEndpoint, cfg.Images.StockKey),
		images.NewCountingGuard(cfg.Images.GenerativeQuota),
	)

	runner := &pipeline.Runner{
		Completer:       completer,
		Enricher:        enricher,
		Saver:           &dbSaver{db: db},
		Temperature:     float32(cfg.AI.Active().Temperature),
		MaxOutputTokens: int32(cfg.AI.Active().MaxTokens),
		StageDelay:      400 * time.Millisecond,
	}

	return &server{
		cfg:    cfg,
		db:     db,
		themes: themes,
		runner: runner,
	}
}
