package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"eletralog/anomaly"
	"eletralog/audit"
	"eletralog/auth"
	"eletralog/booking"
	"eletralog/db"
	"eletralog/lifecycle"
	"eletralog/masterdata"
	"eletralog/ratelim"
	"eletralog/routes"
	"eletralog/slotstore"
	"eletralog/visits"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(rateLimiter *ratelim.RateLimiter, auditLog *audit.Log) *httprouter.Router {
	store := slotstore.NewMongo(db.SlotsCollection)

	engine := booking.NewEngine(store, auditLog)
	manager := lifecycle.NewManager(store, auditLog)
	tracker := anomaly.NewTracker(store, manager)

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rateLimiter, &auth.API{Users: db.UsersCollection})
	routes.AddBookingRoutes(router, rateLimiter, &booking.API{Engine: engine})
	routes.AddVisitRoutes(router, &visits.API{Store: store})
	routes.AddLifecycleRoutes(router, rateLimiter, &lifecycle.API{Manager: manager})
	routes.AddAnomalyRoutes(router, rateLimiter, &anomaly.API{Tracker: tracker})
	routes.AddAuditRoutes(router, &audit.API{Log: auditLog})
	routes.AddMasterDataRoutes(router, rateLimiter, &masterdata.API{
		Users:     db.UsersCollection,
		Carriers:  db.CarriersCollection,
		Vehicles:  db.VehiclesCollection,
		Customers: db.CustomersCollection,
		Drivers:   db.DriversCollection,
	})
	routes.AddLiveRoutes(router)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":4000"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := db.Connect(ctx); err != nil {
		log.Fatalf("❌ Mongo connect failed: %v", err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Index setup failed: %v", err)
	}
	if err := auth.EnsureSeedUser(ctx, db.UsersCollection); err != nil {
		log.Fatalf("❌ Seed user failed: %v", err)
	}

	// Redis fans audit entries out to live viewers; the app still works
	// without it, entries then only reach Mongo.
	var rdb *redis.Client
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable (%v); live audit feed disabled", err)
		rdb = nil
	}

	auditLog := audit.New(db.LogsCollection, rdb)
	if rdb != nil {
		go audit.StartEventWorker(ctx, rdb)
	}

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(rateLimiter, auditLog)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Printf("Mongo close: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	log.Println("✅ Server stopped cleanly")
}
