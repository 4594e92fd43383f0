package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/examtrainer/backend/internal/auth"
	"github.com/examtrainer/backend/internal/database"
	"github.com/examtrainer/backend/internal/exam"
	"github.com/examtrainer/backend/internal/middleware"
	"github.com/examtrainer/backend/internal/progress"
	"github.com/examtrainer/backend/internal/questions"
	"github.com/examtrainer/backend/internal/review"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Stores and services
	qualityCfg := review.QualityConfigFromEnv()

	progressService := progress.NewService(progress.NewStore(db))
	reviewService := review.NewService(review.NewStore(db), qualityCfg)
	questionStore := questions.NewStore(db)
	questionService := questions.NewService(questionStore, reviewService, progressService, qualityCfg)

	examEngine := exam.NewEngine(exam.NewSQLStore(db), questionStore, progressService)
	var examClock *exam.Clock
	if os.Getenv("EXAM_AUTO_SUBMIT") != "false" {
		examClock = exam.NewClock(examEngine)
	}

	// Handlers
	authHandler := auth.NewHandler(db)
	reviewHandler := review.NewHandler(reviewService)
	questionHandler := questions.NewHandler(questionService)
	examHandler := exam.NewHandler(examEngine, examClock)
	progressHandler := progress.NewHandler(progressService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	reviewHandler.RegisterRoutes(protected)
	questionHandler.RegisterRoutes(protected)
	examHandler.RegisterRoutes(protected)
	progressHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
