package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/railhub/planner/internal/config"
	"github.com/railhub/planner/internal/db"
	"github.com/railhub/planner/internal/handlers"
	"github.com/railhub/planner/internal/metrics"
	"github.com/railhub/planner/internal/planner"
	"github.com/railhub/planner/internal/realtime/departures"
)

func main() {
	// Load .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()

	topo, err := planner.LoadTopology(cfg.TopologyPath)
	if err != nil {
		log.Fatalf("Failed to load network topology: %v", err)
	}

	// Schedule store: Postgres when DATABASE_URL is set, SQLite otherwise.
	var store planner.ScheduleStore
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to Postgres schedule store")
		pgStore, err := db.NewPostgresScheduleStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		sqliteDB, err := db.Connect(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite database: %v", err)
		}
		defer sqliteDB.Close()
		store = db.NewScheduleStore(sqliteDB)
	}

	// Live departure feed for the shared terminal, optional.
	var live planner.LiveFeed
	if cfg.LiveFeedURL != "" {
		terminalStops := topo.Intercity().Resolve(topo.Terminal)
		live = departures.NewClient(cfg.LiveFeedURL, terminalStops, cfg.LiveFeedTimeout)
		log.Printf("Live departure feed enabled: %s", cfg.LiveFeedURL)
	}

	svc := planner.NewService(store, topo, live)
	collector := metrics.NewCollector()
	planHandler := handlers.NewPlanHandler(svc, collector)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", planHandler.GetHealth)
	r.Handle("/metrics", collector.Handler())

	r.Post("/api/plan", planHandler.CreatePlan)
	r.Post("/api/details", planHandler.GetTripDetails)
	r.Get("/api/departures", planHandler.GetDepartures)

	log.Printf("API server starting on :%s", cfg.Port)
	log.Println("Endpoints:")
	log.Println("  POST /api/plan")
	log.Println("  POST /api/details")
	log.Println("  GET  /api/departures")
	log.Println("  GET  /health")
	log.Println("  GET  /metrics")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
