package setup

import (
	"fmt"

	"github.com/authgate-dev/authgate/internal/config"
	"github.com/authgate-dev/authgate/internal/handler"
	"github.com/authgate-dev/authgate/internal/jwt"
	"github.com/authgate-dev/authgate/internal/service"
	"github.com/authgate-dev/authgate/internal/storage/memory"
	"github.com/authgate-dev/authgate/internal/storage/pg"
	"github.com/authgate-dev/authgate/internal/storage/redis"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Handler *handler.Handler
	Jwt     jwt.TokenService
	Bans    service.TokenBanStorage
	Cleanup func()
}

// SetupDependencies initializes everything the router needs, selecting the
// account and ban store backends from the config.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Both stores may live in the same postgres database; open one
	// connection pool and share it.
	var pgStorage *pg.Storage
	needPg := cfg.Public.AccountStorage == "postgres" || cfg.Public.TokenBanStorage == "postgres"
	if needPg {
		var err error
		pgStorage, err = pg.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres storage: %w", err)
		}
		cleanups = append(cleanups, func() { pgStorage.Cleanup() })
	}

	var accounts service.AccountStorage
	switch cfg.Public.AccountStorage {
	case "memory":
		accounts = memory.NewAccountStore()
	case "postgres":
		accounts = pgStorage
	default:
		cleanup()
		return nil, fmt.Errorf("unknown account_storage %q", cfg.Public.AccountStorage)
	}

	var bans service.TokenBanStorage
	switch cfg.Public.TokenBanStorage {
	case "memory":
		bans = memory.NewBannedTokenStore()
	case "postgres":
		bans = pgStorage
	case "redis":
		redisStore, err := redis.New(cfg)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to init redis storage: %w", err)
		}
		cleanups = append(cleanups, func() { redisStore.Cleanup() })
		bans = redisStore
	default:
		cleanup()
		return nil, fmt.Errorf("unknown token_ban_storage %q", cfg.Public.TokenBanStorage)
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	auth := service.NewAuth(accounts, bans, jwtService)
	h := handler.New(auth, cfg)

	return &Dependencies{
		Config:  cfg,
		Handler: h,
		Jwt:     jwtService,
		Bans:    bans,
		Cleanup: cleanup,
	}, nil
}
