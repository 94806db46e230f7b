package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"arcadebot/admin"
	"arcadebot/bot"
	"arcadebot/config"
	"arcadebot/database"
	"arcadebot/events"
	"arcadebot/repository"
	"arcadebot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting arcade bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize storage backend
	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize services
	services := service.NewServices(store, eventBus, cfg.AdminIDs)
	log.Println("Services initialized successfully")

	// Initialize Telegram bot
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Printf("Authorized on Telegram account @%s", api.Self.UserName)

	arcadeBot := bot.New(api, services, eventBus)

	// Start the admin panel when configured
	if cfg.AdminListenAddr != "" {
		if len(cfg.AdminIDs) == 0 {
			return fmt.Errorf("admin panel requires at least one configured admin ID")
		}
		server := admin.NewServer(cfg.AdminListenAddr, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminIDs[0], services.Admin)
		go func() {
			if err := server.Run(ctx); err != nil {
				log.Printf("Admin server error: %v", err)
			}
		}()
	}

	// Run the bot until the context is cancelled
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	if err := arcadeBot.Run(ctx); err != nil {
		return fmt.Errorf("bot error: %w", err)
	}

	// Give cleanup operations time to complete
	log.Println("Shutting down bot...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// buildStore selects the persistence backend from configuration. The
// returned cleanup closes whatever connection the backend holds.
func buildStore(ctx context.Context, cfg *config.Config) (service.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		log.Println("Connecting to database...")
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("Database connection established successfully")
		return repository.NewPostgresStore(db), db.Close, nil

	case "redis":
		log.Println("Connecting to Redis...")
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store, err := repository.NewRedisStore(ctx, client)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Println("Redis connection established successfully")
		return store, func() { _ = client.Close() }, nil

	case "memory":
		log.Println("Using in-memory store, state will not survive restarts")
		return repository.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
