package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/adapter/memory"
	"github.com/YelzhanWeb/tables/internal/adapter/postgres"
	"github.com/YelzhanWeb/tables/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/tables/internal/app/availability"
	"github.com/YelzhanWeb/tables/internal/app/reservation"
	"github.com/YelzhanWeb/tables/internal/config"
	"github.com/YelzhanWeb/tables/internal/interfaces"
	"github.com/YelzhanWeb/tables/internal/lock"
	"github.com/YelzhanWeb/tables/internal/seed"

	amqpAdapter "github.com/YelzhanWeb/tables/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/tables/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "reservation-service", "Service mode: reservation-service, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx := context.Background()

	// Initialize logger
	lgr := logger.New(*mode)

	// Connect to RabbitMQ when notifications are enabled
	var mqConn rabbitmq.Connection
	if cfg.RabbitMQ.Enabled {
		mqConn, err = rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqConn.Close()

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
	}

	switch *mode {
	case "reservation-service":
		runReservationService(ctx, cfg, mqConn, lgr)

	case "notification-subscriber":
		if mqConn == nil {
			log.Fatal("notification-subscriber mode requires rabbitmq.enabled: true")
		}
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

type repositories struct {
	reservations interfaces.ReservationRepository
	tables       interfaces.TableRepository
	waiters      interfaces.WaiterRepository
	customers    interfaces.CustomerRepository
}

func buildRepositories(ctx context.Context, cfg *config.Config, lgr logger.Logger) (repositories, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return repositories{}, nil, err
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
		return repositories{
			reservations: postgres.NewReservationRepository(db),
			tables:       postgres.NewTableRepository(db),
			waiters:      postgres.NewWaiterRepository(db),
			customers:    postgres.NewCustomerRepository(db),
		}, db.Close, nil

	case "memory":
		repos := repositories{
			reservations: memory.NewReservationRepository(),
			tables:       memory.NewTableRepository(),
			waiters:      memory.NewWaiterRepository(),
			customers:    memory.NewCustomerRepository(),
		}
		if err := seed.Run(ctx, repos.tables, repos.waiters, lgr); err != nil {
			return repositories{}, nil, err
		}
		return repos, func() {}, nil

	default:
		return repositories{}, nil, fmt.Errorf("invalid database driver: %s", cfg.Database.Driver)
	}
}

func runReservationService(ctx context.Context, cfg *config.Config, mqConn rabbitmq.Connection, lgr logger.Logger) {
	repos, closeDB, err := buildRepositories(ctx, cfg, lgr)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeDB()

	// Initialize messaging
	var publisher interfaces.MessagePublisher
	if mqConn != nil {
		publisher = rabbitmq.NewPublisher(mqConn)
	}

	// Initialize services
	locks := lock.NewManager()
	availabilityService := availability.NewService(repos.tables, repos.reservations, lgr, cfg.Restaurant)
	reservationService := reservation.NewService(
		repos.reservations, repos.tables, repos.waiters, repos.customers,
		availabilityService, locks, publisher, lgr, cfg.Restaurant,
	)
	defer reservationService.Shutdown()

	// Initialize HTTP handlers
	reservationHandler := httpAdapter.NewReservationHandler(reservationService, lgr)
	availabilityHandler := httpAdapter.NewAvailabilityHandler(availabilityService, lgr)

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/reservations", reservationHandler.HandleReservations)
	mux.HandleFunc("/reservations/", reservationHandler.HandleReservationByID)
	mux.HandleFunc("/walk-ins", reservationHandler.HandleWalkIns)
	mux.HandleFunc("/walk-ins/capacity", reservationHandler.HandleWalkInCapacity)
	mux.HandleFunc("/availability", availabilityHandler.HandleCheck)
	mux.HandleFunc("/availability/grid", availabilityHandler.HandleGrid)
	mux.HandleFunc("/availability/next", availabilityHandler.HandleNext)
	mux.HandleFunc("/availability/wait", availabilityHandler.HandleWait)

	// Apply middleware
	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Reservation Service started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port":   cfg.HTTP.Port,
		"driver": cfg.Database.Driver,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down Reservation Service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	// Initialize consumer
	consumer := rabbitmq.NewConsumer(mqConn)

	// Initialize handler
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	// Start consuming notifications
	go func() {
		if err := consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	// Wait for shutdown signal
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}
