// Command server runs the campus event booking API.
//
//	@title						Campus Booking API
//	@version					1.0
//	@description				Event catalog, event request review and ticket booking for a college campus.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusbooking/config"
	_ "campusbooking/docs"
	"campusbooking/internal/adapters/auth"
	"campusbooking/internal/adapters/broker"
	"campusbooking/internal/adapters/email"
	delivery "campusbooking/internal/delivery/http"
	"campusbooking/internal/delivery/http/controllers"
	"campusbooking/internal/domain"
	"campusbooking/internal/ids"
	"campusbooking/internal/inventory"
	"campusbooking/internal/repository/memory"
	"campusbooking/internal/repository/postgres"
	"campusbooking/internal/services"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type repositories struct {
	users    domain.UserRepository
	events   domain.EventRepository
	requests domain.EventRequestRepository
	tickets  domain.TicketRepository
}

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	allocator, closeAllocator, err := newAllocator(cfg)
	if err != nil {
		return err
	}
	defer closeAllocator()
	err = ids.SeedFromStore(ctx, allocator, map[domain.IDCategory]ids.HighWaterMark{
		domain.CategoryUser:         repos.users.MaxID,
		domain.CategoryEvent:        repos.events.MaxID,
		domain.CategoryPendingEvent: repos.requests.MaxID,
		domain.CategoryTicket:       repos.tickets.MaxID,
	})
	if err != nil {
		return fmt.Errorf("seed identifiers: %w", err)
	}

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	identity := services.NewIdentityProvider(repos.users)
	locker := inventory.NewLocker()

	authService := services.NewAuthService(
		repos.users, allocator,
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		auth.NewJWTIssuer(cfg.JWTSecret),
		cfg.JWTExpiry, cfg.RequestTimeout, logger,
	)
	eventService := services.NewEventService(repos.events, identity, allocator, locker, cfg.RequestTimeout, logger)
	requestService := services.NewEventRequestService(
		repos.requests, repos.users, identity, allocator,
		cfg.ApprovalOrganizer, publisher, emailService,
		cfg.RequestTimeout, logger,
	)
	bookingService := services.NewBookingService(repos.tickets, repos.events, identity, allocator, locker, publisher, cfg.RequestTimeout, logger)

	if cfg.AdminEmail != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	router := delivery.NewRouter(delivery.RouterDeps{
		Logger:         logger,
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		AllowedOrigins: cfg.AllowedOrigins,
		Auth:           controllers.NewAuthController(logger, authService),
		Events:         controllers.NewEventController(logger, eventService),
		EventRequests:  controllers.NewEventRequestController(logger, requestService),
		Tickets:        controllers.NewTicketController(logger, bookingService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "storage", cfg.Storage, "id_allocator", cfg.IDAllocator)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			users:    memory.NewUserRepository(store),
			events:   memory.NewEventRepository(store),
			requests: memory.NewEventRequestRepository(store),
			tickets:  memory.NewTicketRepository(store),
		}, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return repositories{}, nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		db.Close()
		return repositories{}, nil, fmt.Errorf("run migrations: %w", err)
	}
	return postgresRepositories(db), func() { db.Close() }, nil
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		users:    postgres.NewUserRepository(db),
		events:   postgres.NewEventRepository(db),
		requests: postgres.NewEventRequestRepository(db),
		tickets:  postgres.NewTicketRepository(db),
	}
}

// identifierAllocator is what the services and the startup seeding need from an allocator.
type identifierAllocator interface {
	domain.IDAllocator
	ids.Seeder
}

func newAllocator(cfg *config.Config) (identifierAllocator, func(), error) {
	if cfg.IDAllocator != config.AllocatorRedis {
		return ids.NewAllocator(), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	return ids.NewRedisAllocator(client), func() { client.Close() }, nil
}

func newPublisher(cfg *config.Config, logger *slog.Logger) (domain.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return broker.NoopPublisher{Logger: logger}, func() {}, nil
	}
	p, err := broker.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect broker: %w", err)
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("close broker", "error", err)
		}
	}, nil
}
