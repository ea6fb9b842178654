/**
 * @description
 * This is the main entry point for the donation-service. It is responsible for
 * initializing all components of the service, including configuration, the
 * charity catalog source, durable key-value storage, the message broker
 * producer, the chain adapter and wallet session, the core application
 * service, and the HTTP server. It wires everything together and starts the
 * service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/go-chi/chi/v5: For HTTP routing.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Durable key-value storage.
 * - internal/api, internal/app, internal/config, internal/quiz, internal/store,
 *   internal/wallet: Internal packages for the service.
 * - pkg/ethchain: Chain adapter over go-ethereum.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/givechain/donation-service/internal/api"
	"github.com/givechain/donation-service/internal/app"
	"github.com/givechain/donation-service/internal/config"
	"github.com/givechain/donation-service/internal/domain"
	"github.com/givechain/donation-service/internal/quiz"
	"github.com/givechain/donation-service/internal/store"
	"github.com/givechain/donation-service/internal/wallet"
	"github.com/givechain/donation-service/pkg/ethchain"
	rmrabbit "github.com/givechain/donation-service/pkg/rabbitmq"
)

func main() {
	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.InternalAPIKey) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"internal api key must be configured\" env=INTERNAL_API_KEY")
	}

	log.Printf("level=info component=bootstrap msg=\"starting donation-service\" port=%s chain_id=%d", cfg.ServerPort, cfg.ChainID)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Load the charity catalog and quiz questions. PostgreSQL is the source of
	// truth when configured; otherwise the built-in seed data keeps the
	// service usable in development.
	charities, questions := loadCatalogSources(rootCtx, cfg)

	// Durable key-value storage. Redis when configured and reachable, an
	// in-memory map otherwise.
	kv := buildKV(rootCtx, cfg)

	// Initialize the RabbitMQ producer to publish events.
	// This service only needs to publish, so we use a producer.
	var producer rmrabbit.Publisher = &rmrabbit.EventProducerFallback{}
	rabbitProducer, err := rmrabbit.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
	} else {
		producer = rabbitProducer
		defer rabbitProducer.Close()
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Initialize the chain adapter and the wallet session on top of it.
	adapter, err := ethchain.New(ethchain.Config{
		PrivateKeyHex:   cfg.WalletKeyHex,
		ContractAddress: cfg.ContractAddress,
		InitialChain:    cfg.TargetChain(),
	})
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"chain adapter init failed\" err=%v", err)
	}

	session := wallet.NewSession(adapter, cfg.TargetChain())
	go session.Run(rootCtx)
	session.Restore(rootCtx)

	quizManager := quiz.NewManager(rootCtx, kv, questions)

	// Initialize the core application service with its dependencies.
	donationService := app.NewService(kv, session, adapter, producer, quizManager)
	if err := donationService.LoadCatalog(rootCtx, charities); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"catalog load failed\" err=%v", err)
	}

	// Initialize the API handlers.
	donationHandlers := api.NewDonationHandlers(donationService)

	// Set up the HTTP router and define the API routes.
	router := chi.NewRouter()
	router.Mount("/api", api.DonationRoutes(donationHandlers, cfg.InternalAPIKey))

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}

// loadCatalogSources returns the charity catalog and quiz questions, from
// PostgreSQL when configured and populated, otherwise from the seed data.
func loadCatalogSources(ctx context.Context, cfg config.Config) ([]domain.Charity, []domain.QuizQuestion) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"database url missing; using seed catalog\" env=DATABASE_URL")
		return store.SeedCharities(), store.SeedQuizQuestions()
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"database url parse failed; using seed catalog\" err=%v", err)
		return store.SeedCharities(), store.SeedQuizQuestions()
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"database connection failed; using seed catalog\" err=%v", err)
		return store.SeedCharities(), store.SeedQuizQuestions()
	}
	defer dbpool.Close()

	catalog := store.NewPostgresCatalog(dbpool)

	charities, err := catalog.LoadCharities(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCatalogEmpty) {
			log.Println("level=warn component=bootstrap msg=\"charity table empty; using seed catalog\"")
		} else {
			log.Printf("level=warn component=bootstrap msg=\"charity load failed; using seed catalog\" err=%v", err)
		}
		return store.SeedCharities(), store.SeedQuizQuestions()
	}

	questions, err := catalog.LoadQuizQuestions(ctx)
	if err != nil || len(questions) == 0 {
		log.Printf("level=warn component=bootstrap msg=\"quiz question load failed; using seed questions\" err=%v", err)
		questions = store.SeedQuizQuestions()
	}

	log.Printf("level=info component=bootstrap msg=\"catalog loaded from database\" charities=%d questions=%d", len(charities), len(questions))
	return charities, questions
}

// buildKV returns Redis-backed storage when the URL is configured and the
// server answers a ping, and in-memory storage otherwise. In-memory storage
// loses quiz answers and donation history on restart.
func buildKV(ctx context.Context, cfg config.Config) store.KV {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; using in-memory storage\" env=REDIS_URL")
		return store.NewMemoryKV()
	}

	redisOptions, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; using in-memory storage\" err=%v", err)
		return store.NewMemoryKV()
	}

	redisClient := redis.NewClient(redisOptions)
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Printf("level=warn component=bootstrap msg=\"redis ping failed; using in-memory storage\" err=%v", err)
		redisClient.Close()
		return store.NewMemoryKV()
	}

	log.Println("level=info component=bootstrap msg=\"redis connected\"")
	return store.NewRedisKV(redisClient, cfg.RedisKeyPrefix)
}
