// Command web serves the detective game. Each browser session gets its own
// game controller; the web layer renders its state and forwards player
// actions to it.
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/gumshoe/internal/ambient"
	"github.com/myrjola/gumshoe/internal/broker"
	"github.com/myrjola/gumshoe/internal/envstruct"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/generator"
	"github.com/myrjola/gumshoe/internal/logging"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/pprofserver"
	"github.com/myrjola/gumshoe/internal/repositories"
	"github.com/myrjola/gumshoe/internal/session"
	"github.com/myrjola/gumshoe/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	htmx           *htmx.HTMX
	sessionManager *scs.SessionManager
	sessions       *session.Registry
	casebook       *repositories.CasebookRepository
	portraits      *generator.Portraits
	hintBroker     *broker.Broker[string, string]
}

type configuration struct {
	Addr           string        `env:"GUMSHOE_ADDR" envDefault:"localhost:4000"`
	PprofPort      string        `env:"GUMSHOE_PPROF_PORT" envDefault:":6060"`
	SQLiteURL      string        `env:"GUMSHOE_SQLITE_URL" envDefault:"./gumshoe.sqlite"`
	AIBackend      string        `env:"GUMSHOE_AI_BACKEND" envDefault:"openai"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" envDefault:""`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:""`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY" envDefault:""`
	GeminiModel    string        `env:"GEMINI_MODEL" envDefault:""`
	Portraits      bool          `env:"GUMSHOE_PORTRAITS" envDefault:"false"`
	SessionTimeout time.Duration `env:"GUMSHOE_SESSION_IDLE_TIMEOUT" envDefault:"1h"`
	AmbientTick    time.Duration `env:"GUMSHOE_AMBIENT_TICK" envDefault:"30s"`
}

const registrySweepInterval = time.Minute

func main() {
	ctx := context.Background()
	loggerHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		AddSource:   true,
		ReplaceAttr: nil,
	})
	logger := slog.New(logging.NewContextHandler(loggerHandler))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg configuration
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse configuration")
	}

	// pprof listens on localhost only so that it's not open to the world.
	if cfg.PprofPort != "" {
		pprofserver.Launch(ctx, cfg.PprofPort, logger)
	}

	var dbs *sqlite.Database
	if dbs, err = sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger); err != nil {
		return errors.Wrap(err, "open database")
	}
	defer func() {
		if closeErr := dbs.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	gen, closeGenerator, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "initialise generator")
	}
	defer closeGenerator()

	var portraits *generator.Portraits
	if cfg.Portraits {
		portraits = generator.NewPortraits(generator.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   "",
		}, logger)
	}

	sessions := session.NewRegistry(func() *session.Controller {
		return newGameController(ctx, gen, cfg.AmbientTick, logger)
	}, cfg.SessionTimeout, logger)
	go sessions.Start(registrySweepInterval)
	defer sessions.Stop()

	hintBroker := broker.New[string, string]()
	go hintBroker.Start()
	defer hintBroker.Stop()

	app := &application{
		logger:         logger,
		htmx:           htmx.New(),
		sessionManager: sessionManager,
		sessions:       sessions,
		casebook:       repositories.NewCasebookRepository(dbs, logger),
		portraits:      portraits,
		hintBroker:     hintBroker,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

// newGameController wires a fresh controller together with its ambient pulse.
// The pulse is armed only while the session is on the investigating screen.
func newGameController(
	ctx context.Context,
	gen session.Generator,
	tickInterval time.Duration,
	logger *slog.Logger,
) *session.Controller {
	controller := session.NewController(gen, logger)
	pulse := ambient.NewPulse(tickInterval, func() {
		logger.LogAttrs(ctx, slog.LevelDebug, "ambient pulse")
	})
	controller.AddListener(func(screen models.Screen) {
		if screen == models.ScreenInvestigating {
			pulse.Arm()
		} else {
			pulse.Disarm()
		}
	})
	return controller
}

func newGenerator(
	ctx context.Context,
	cfg configuration,
	logger *slog.Logger,
) (session.Generator, func(), error) {
	switch cfg.AIBackend {
	case "openai":
		gen := generator.NewOpenAI(generator.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, logger)
		return gen, func() {}, nil
	case "gemini":
		gen, err := generator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, nil, errors.Wrap(err, "new gemini client")
		}
		return gen, func() {
			if closeErr := gen.Close(); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "close gemini client", errors.SlogError(closeErr))
			}
		}, nil
	default:
		return nil, nil, errors.New("unknown AI backend", slog.String("backend", cfg.AIBackend))
	}
}
