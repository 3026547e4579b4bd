package controllers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/adamanr/portal_service/internal/config"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Querier is the subset of pgx used by controllers; *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Pusher delivers a payload to a user's live stream, reporting whether it
// was written.
type Pusher interface {
	Send(userID string, payload any) bool
}

type Controllers struct {
	AuthController         *AuthController
	ActivityLogController  *ActivityLogController
	AttendanceController   *AttendanceController
	LeaveController        *LeaveController
	NotificationController *NotificationController
	MenuController         *MenuController
	ContentController      *ContentController
}

type Dependens struct {
	// DB is the read ("get") pool, WriteDB the write ("post") pool.
	DB      Querier
	WriteDB Querier
	Redis   interface {
		Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
		Get(ctx context.Context, key string) *redis.StringCmd
		Del(ctx context.Context, keys ...string) *redis.IntCmd
	}
	Logger   *slog.Logger
	Config   *config.Config
	Validate *validator.Validate
}

func NewControllers(deps *Dependens, pusher Pusher) *Controllers {
	activity := NewActivityLogController(deps)

	return &Controllers{
		AuthController:         NewAuthController(deps, activity),
		ActivityLogController:  activity,
		AttendanceController:   NewAttendanceController(deps),
		LeaveController:        NewLeaveController(deps),
		NotificationController: NewNotificationController(deps, pusher, activity),
		MenuController:         NewMenuController(deps),
		ContentController:      NewContentController(deps),
	}
}
