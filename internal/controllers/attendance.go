package controllers

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/adamanr/portal_service/internal/entity"
	"github.com/jackc/pgx/v5"
)

type AttendanceController struct {
	deps *Dependens
}

func NewAttendanceController(deps *Dependens) *AttendanceController {
	return &AttendanceController{
		deps: deps,
	}
}

// GetHistory returns the user's absensi rows, newest first.
func (c *AttendanceController) GetHistory(ctx context.Context, userID int64, filter entity.AttendanceFilter) ([]entity.Attendance, error) {
	builder := psql.
		Select("id", "tanggal::text AS date", "jam_masuk::text AS jam_masuk", "jam_pulang::text AS jam_pulang", "durasi").
		From("absensi").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("tanggal DESC", "id DESC")

	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"tanggal": filter.From.Format(time.DateOnly)})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"tanggal": filter.To.Format(time.DateOnly)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		c.deps.Logger.Error("Error building attendance query", slog.String("error", err.Error()))
		return nil, err
	}

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying attendance", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	history, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Attendance])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return history, nil
}
