package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"healthmini/adapters/mail"
	"healthmini/adapters/postgres"
	"healthmini/ai"
	"healthmini/app"
	"healthmini/internal"
	"healthmini/internal/config"
	"healthmini/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	UserRepo         ports.UserRepository
	SessionRepo      ports.SessionRepository
	MessageRepo      ports.MessageRepository
	HealthRecordRepo ports.HealthRecordRepository

	// Boundary adapters
	Completion ports.CompletionClient
	Mailer     ports.MailSender

	// Services
	SessionManager    *app.SessionManager
	QuotaEnforcer     *app.QuotaEnforcer
	HistoryService    *app.HistoryService
	AdviceService     *app.AdviceService
	PredictionService *app.PredictionService
	UserService       *app.UserService
	AdminService      *app.AdminService
	RetentionSweeper  *app.RetentionSweeper
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
	}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	c.DB = db

	c.initRepositories()
	c.initServices()

	c.Logger.Info("container initialized with database connection")
	return nil
}

// InitWithRepositories wires the services over caller-supplied repositories,
// skipping the database. Used by the in-memory dev mode and handler tests.
func (c *Container) InitWithRepositories(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	messages ports.MessageRepository,
	records ports.HealthRecordRepository,
) {
	c.UserRepo = users
	c.SessionRepo = sessions
	c.MessageRepo = messages
	c.HealthRecordRepo = records

	c.initServices()
}

func (c *Container) initRepositories() {
	c.UserRepo = postgres.NewUserRepository(c.DB)
	c.SessionRepo = postgres.NewSessionRepository(c.DB)
	c.MessageRepo = postgres.NewMessageRepository(c.DB)
	c.HealthRecordRepo = postgres.NewHealthRecordRepository(c.DB)
}

func (c *Container) initServices() {
	// Pre-seeded boundary adapters (tests, dev mode) are kept.
	if c.Completion == nil {
		c.Completion = ai.NewGeminiClient(c.Config.Gemini)
	}
	if c.Mailer == nil {
		c.Mailer = mail.NewLogMailer(c.Logger)
	}

	c.SessionManager = app.NewSessionManager(c.SessionRepo)
	c.QuotaEnforcer = app.NewQuotaEnforcer(c.MessageRepo)
	c.HistoryService = app.NewHistoryService(c.UserRepo, c.SessionRepo, c.MessageRepo)
	c.AdviceService = app.NewAdviceService(c.UserRepo, c.MessageRepo, c.SessionManager, c.QuotaEnforcer, c.Completion)
	c.PredictionService = app.NewPredictionService(c.UserRepo, c.HealthRecordRepo, c.Completion)
	c.UserService = app.NewUserService(c.UserRepo, c.Mailer, c.Config.Auth)
	c.AdminService = app.NewAdminService(c.UserRepo, c.MessageRepo)
	c.RetentionSweeper = app.NewRetentionSweeper(c.SessionRepo, c.Logger)
}
