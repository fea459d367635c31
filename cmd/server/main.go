package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/reportguard-backend/internal/authz"
	"github.com/AnshRaj112/reportguard-backend/internal/config"
	"github.com/AnshRaj112/reportguard-backend/internal/database"
	"github.com/AnshRaj112/reportguard-backend/internal/identity"
	"github.com/AnshRaj112/reportguard-backend/internal/middleware"
	"github.com/AnshRaj112/reportguard-backend/internal/routes"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MongoDB connects lazily on first use; indexes are ensured then.
	log.Printf("MongoDB URI: %s", database.MaskURI(cfg.MongoURI))
	mongo := database.NewMongo(cfg.MongoURI, cfg.MongoDatabase, database.EnsureIndexes)
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongo.Disconnect(dctx); err != nil {
			log.Printf("⚠️  MongoDB disconnect: %v", err)
		}
	}()

	hub := services.NewEventHub()
	var events services.EventPublisher = hub

	// Redis (optional): cross-instance event feed and rate limiting
	var rdb *redis.Client
	var limiter *middleware.RedisLimiter
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		var err error
		rdb, err = database.ConnectRedis(cfg.RedisURI)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer rdb.Close()

		relay := services.NewRedisEvents(rdb, hub)
		go relay.Run(ctx)
		events = relay
		limiter = middleware.NewRedisLimiter(rdb)
		log.Println("✅ Redis connected (event feed + rate limiting)")
	} else {
		log.Println("⚠️  REDIS_URI not set: events stay in-process, Redis rate limiting disabled")
	}

	// PostgreSQL (optional): admin audit trail
	var audit services.AuditLog = services.NopAudit{}
	if cfg.PostgresURI != "" {
		log.Printf("Connecting to PostgreSQL...")
		db, err := database.ConnectPostgres(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL:", err)
		}
		defer db.Close()
		audit = services.NewPostgresAudit(db)
		log.Println("✅ Audit log enabled")
	} else {
		log.Println("⚠️  POSTGRES_URI not set: admin audit log disabled")
	}

	idp, err := identity.NewFirebase(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
	if err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}
	log.Println("✅ Firebase auth initialized")

	profiles := services.NewMongoProfiles(mongo)
	reports := services.NewMongoReports(mongo)
	gate := authz.NewGate(profiles, cfg.StrictRoleCheck)
	if cfg.StrictRoleCheck {
		log.Println("🔒 Strict role check: admin roles are always read from the profile store")
	}

	r := routes.NewRouter(routes.Deps{
		Reports:        services.NewReportService(reports, profiles, audit, events),
		Profiles:       services.NewProfileService(profiles, idp, audit),
		Audit:          audit,
		Hub:            hub,
		Auth:           middleware.NewAuth(idp, gate),
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Production:     cfg.IsProduction(),
		AllowedHost:    cfg.AllowedHost,
		Limiter:        limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 ReportGuard backend running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Printf("⚠️  Graceful shutdown failed: %v", err)
	}
}
