package main

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/auth"
	"github.com/gauravmindaptix26/leaado-backend/internal/config"
	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/database"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/http/middleware"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/integration/pitch"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/queue"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/storage"
	"github.com/gauravmindaptix26/leaado-backend/internal/usecase"
)

// app holds every long-lived dependency of the server.
type app struct {
	db     *sql.DB
	broker *queue.RabbitMQ

	leadRepo entity.LeadRepository
	userRepo entity.UserRepository

	store storage.Store
	local *storage.LocalStore
	pitch *pitch.Client

	tokens  *auth.TokenManager
	leads   *usecase.LeadIngestionUseCase
	signup  *usecase.SignupUseCase
	login   *usecase.LoginUseCase
	profile *usecase.ProfileUseCase
}

func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := database.NewDBConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	zap.L().Info("database connected", zap.String("driver", cfg.Driver))
	return db, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	if cfg.Database.Driver == "memory" {
		zap.L().Warn("using in-memory store; data is lost on restart")
		a.leadRepo = database.NewMemoryLeadRepository()
		a.userRepo = database.NewMemoryUserRepository()
	} else {
		db, err := openDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		if cfg.Database.AutoMigrate {
			if err := database.EnsureSchema(ctx, db); err != nil {
				a.Close()
				return nil, err
			}
		}
		a.leadRepo = database.NewLeadRepository(db)
		a.userRepo = database.NewUserRepository(db)
	}

	if err := a.initStorage(ctx, cfg.Storage); err != nil {
		a.Close()
		return nil, err
	}

	var events usecase.EventPublisher
	if cfg.Queue.AMQPURL != "" {
		broker, err := queue.NewRabbitMQ(cfg.Queue.AMQPURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.broker = broker
		events = queue.NewProducer(broker.Ch)
		zap.L().Info("lead events enabled", zap.String("exchange", queue.ExchangeName))
	}

	metrics := middleware.NewLeadMetrics()
	a.pitch = pitch.NewClient(cfg.Pitch.BaseURL, cfg.Pitch.Timeout())
	dispatcher := usecase.NewPitchDispatcher(a.pitch, a.leadRepo, events, metrics, cfg.Pitch.Concurrency)
	a.leads = usecase.NewLeadIngestionUseCase(a.leadRepo, dispatcher, a.store, metrics, cfg.Leads.StrictTransitions)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	a.tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.signup = usecase.NewSignupUseCase(a.userRepo, hasher)
	a.login = usecase.NewLoginUseCase(a.userRepo, hasher, a.tokens)
	a.profile = usecase.NewProfileUseCase(a.userRepo, hasher)

	return a, nil
}

func (a *app) initStorage(ctx context.Context, cfg config.StorageConfig) error {
	switch cfg.Driver {
	case "minio":
		s, err := storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			return err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return err
		}
		a.store = s
	case "", "local":
		s, err := storage.NewLocalStore(cfg.LocalDir, cfg.PublicPrefix)
		if err != nil {
			return err
		}
		a.store = s
		a.local = s
	default:
		return eris.Errorf("unknown storage driver %q", cfg.Driver)
	}
	return nil
}

func (a *app) Close() {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			zap.L().Warn("closing rabbitmq", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			zap.L().Warn("closing database", zap.Error(err))
		}
	}
}
