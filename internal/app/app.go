package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"mentor-backend/internal/config"
	"mentor-backend/internal/database"
	"mentor-backend/internal/services"
	"mentor-backend/internal/session"
)

// App holds the long-lived collaborators shared by every surface.
type App struct {
	Config     *config.Config
	Model      services.ModelClient
	Sessions   *session.Manager
	Identities *session.Identities

	memory *session.MemoryStore
	redis  *redis.Client
}

// Hooks lets tests replace the external collaborators.
type Hooks struct {
	NewParamStore  func(context.Context) (services.ParamGetter, error)
	NewModelClient func(ctx context.Context, provider, apiKey string, opts services.ModelOptions) (services.ModelClient, error)
}

func defaultHooks() Hooks {
	return Hooks{
		NewParamStore:  services.NewDefaultSSMParamStore,
		NewModelClient: services.NewModelClient,
	}
}

// New validates cfg and builds the model client, session store and manager.
// A missing credential fails with services.ErrMissingCredential.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return NewWithHooks(ctx, cfg, defaultHooks())
}

func NewWithHooks(ctx context.Context, cfg *config.Config, hooks Hooks) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	apiKey, err := services.ResolveAPIKey(ctx, cfg.APIKey(), cfg.APIKeySSMParam, hooks.NewParamStore)
	if err != nil {
		return nil, err
	}

	persona, err := services.LoadPersona(cfg.PersonaFile)
	if err != nil {
		return nil, err
	}

	opts := services.ModelOptions{Name: cfg.ModelName, Concurrency: cfg.ModelConcurrency}
	if cfg.HasTemperature {
		t := float32(cfg.Temperature)
		opts.Temperature = &t
	}
	model, err := hooks.NewModelClient(ctx, cfg.Provider, apiKey, opts)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Model: model, Identities: session.NewIdentities(cfg.SessionSecret)}

	scope, err := session.ParseScope(cfg.SessionScope)
	if err != nil {
		a.Close()
		return nil, err
	}

	// The shared dialogue lives as long as the process, so it never idles out.
	idleTTL := cfg.SessionIdleTTL
	if scope == session.ScopeGlobal {
		idleTTL = 0
	}

	var store session.Store
	if cfg.RedisURL != "" && scope != session.ScopeRequest {
		a.redis, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		if store, err = session.NewRedisStore(a.redis, idleTTL); err != nil {
			a.Close()
			return nil, err
		}
	} else {
		a.memory = session.NewMemoryStore(idleTTL)
		store = a.memory
	}

	a.Sessions, err = session.NewManager(model, store, session.Options{
		Scope:    scope,
		Persona:  persona,
		MaxTurns: cfg.SessionMaxTurns,
		Timeout:  cfg.ModelTimeout,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	log.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.ModelName).
		Str("scope", string(scope)).
		Bool("redis", a.redis != nil).
		Msg("Mentor initialized")
	return a, nil
}

// StoreKind names the session store in use.
func (a *App) StoreKind() string {
	if a.redis != nil {
		return "redis"
	}
	return "memory"
}

func (a *App) Close() {
	if a.memory != nil {
		a.memory.Stop()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.Model != nil {
		if err := a.Model.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close model client")
		}
	}
}
