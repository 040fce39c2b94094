package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/snapsplit/snapsplit/docs"
	"github.com/snapsplit/snapsplit/internal/assignment"
	"github.com/snapsplit/snapsplit/internal/config"
	"github.com/snapsplit/snapsplit/internal/database"
	"github.com/snapsplit/snapsplit/internal/item"
	"github.com/snapsplit/snapsplit/internal/realtime"
	"github.com/snapsplit/snapsplit/internal/receipt"
	"github.com/snapsplit/snapsplit/internal/room"
)

// @title           SnapSplit API
// @version         1.0
// @description     Collaborative bill splitting: rooms, items, percentage shares and computed per-person totals.
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// Optional Redis cache for room snapshots
	var cache *room.Cache
	if cfg.RedisURL != "" {
		cache, err = room.NewCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cache.Close()
		log.Println("Connected to Redis successfully")
	}

	// Realtime hub fans mutations and recomputed splits out to clients
	hub := realtime.NewHub()
	go hub.Run()

	// Room feature (owns snapshots and split recomputation)
	roomRepo := room.NewRepository(db)
	roomService := room.NewService(roomRepo, cache, hub, cfg.RoomTTL)
	roomHandler := room.NewHandler(roomService)

	// Item feature
	itemRepo := item.NewRepository(db)
	itemService := item.NewService(itemRepo, hub, roomService)
	itemHandler := item.NewHandler(itemService)

	// Assignment feature
	assignmentRepo := assignment.NewRepository(db)
	assignmentService := assignment.NewService(assignmentRepo, hub, roomService)
	assignmentHandler := assignment.NewHandler(assignmentService)

	// Receipt feature
	receiptService := receipt.NewService(cfg.AnthropicAPIKey, cfg.ReceiptModel)
	receiptHandler := receipt.NewHandler(receiptService)

	// Background janitor for expired rooms
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go roomService.StartCleanup(ctx, cfg.CleanupInterval)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.ClientOrigin},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", roomHandler.Create)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", roomHandler.GetState)
				r.Patch("/", roomHandler.Update)
				r.Delete("/", roomHandler.Delete)
				r.Post("/join", roomHandler.Join)
				r.Get("/splits", roomHandler.GetSplits)
				r.Get("/ws", hub.ServeWS)

				r.Mount("/items", itemHandler.Routes())
				r.Mount("/assignments", assignmentHandler.Routes())
				r.Mount("/receipts", receiptHandler.Routes())
			})
		})
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
