package database

import (
	"context"
	"log/slog"

	"github.com/adamanr/portal_service/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pools holds the two independently pooled connection profiles: Get serves
// reads, Post serves writes.
type Pools struct {
	Get  *pgxpool.Pool
	Post *pgxpool.Pool
}

func (p *Pools) Close() {
	if p.Get != nil {
		p.Get.Close()
	}
	if p.Post != nil {
		p.Post.Close()
	}
}

func NewPools(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Pools, error) {
	get, err := NewPool(ctx, "get", cfg.Database.Get, logger)
	if err != nil {
		return nil, err
	}

	post, err := NewPool(ctx, "post", cfg.Database.Post, logger)
	if err != nil {
		get.Close()
		return nil, err
	}

	return &Pools{Get: get, Post: post}, nil
}

func NewPool(ctx context.Context, name string, profile config.DBProfile, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(profile.DSN())
	if err != nil {
		logger.Error("Error parsing DB config", slog.String("profile", name), slog.String("error", err.Error()))
		return nil, err
	}
	poolCfg.MaxConns = profile.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Error connecting to DB", slog.String("profile", name), slog.String("error", err.Error()))
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		logger.Error("Error pinging DB", slog.String("profile", name), slog.String("error", err.Error()))
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to DB successfully",
		slog.String("profile", name),
		slog.String("host", profile.Host),
		slog.Int("max_conns", int(profile.MaxConns)),
	)

	return pool, nil
}
