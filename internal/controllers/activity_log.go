package controllers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/adamanr/portal_service/internal/entity"
	"github.com/adamanr/portal_service/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
)

// RetentionMonths is how long activity logs are kept by AutoDelete.
const RetentionMonths = 2

const exportSheet = "Activity Logs"

type ActivityLogController struct {
	deps *Dependens
	now  func() time.Time
}

func NewActivityLogController(deps *Dependens) *ActivityLogController {
	return &ActivityLogController{
		deps: deps,
		now:  time.Now,
	}
}

func (c *ActivityLogController) GetActivityLogs(ctx context.Context, filter entity.ActivityLogFilter) ([]entity.ActivityLog, error) {
	builder := psql.
		Select("l.id", "l.user_id", "l.action", `l."timestamp"`, "u.name AS user_name", "u.kode_pegawai").
		From("activity_logs l").
		LeftJoin("users u ON u.id = l.user_id").
		OrderBy(`l."timestamp" DESC`, "l.id DESC")

	if filter.UserID != nil {
		builder = builder.Where(sq.Eq{"l.user_id": *filter.UserID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		c.deps.Logger.Error("Error building activity log query", slog.String("error", err.Error()))
		return nil, err
	}

	rows, err := c.deps.DB.Query(ctx, query, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying activity logs", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	logs, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.ActivityLog])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return logs, nil
}

func (c *ActivityLogController) DeleteAll(ctx context.Context) (int64, error) {
	result, err := c.deps.WriteDB.Exec(ctx, "DELETE FROM activity_logs")
	if err != nil {
		c.deps.Logger.Error("Error deleting activity logs", slog.String("error", err.Error()))
		return 0, err
	}

	c.deps.Logger.Info("Activity logs deleted", slog.Int64("deleted", result.RowsAffected()))
	return result.RowsAffected(), nil
}

// Cutoff is the oldest timestamp AutoDelete keeps.
func (c *ActivityLogController) Cutoff() time.Time {
	return c.now().AddDate(0, -RetentionMonths, 0)
}

// AutoDelete removes rows strictly older than the retention cutoff.
func (c *ActivityLogController) AutoDelete(ctx context.Context) (int64, error) {
	cutoff := c.Cutoff()

	result, err := c.deps.WriteDB.Exec(ctx, `DELETE FROM activity_logs WHERE "timestamp" < $1`, cutoff)
	if err != nil {
		c.deps.Logger.Error("Error deleting old activity logs", slog.String("error", err.Error()))
		return 0, err
	}

	metrics.ActivityLogsDeleted.Add(float64(result.RowsAffected()))
	c.deps.Logger.Info("Old activity logs deleted",
		slog.Time("cutoff", cutoff),
		slog.Int64("deleted", result.RowsAffected()),
	)

	return result.RowsAffected(), nil
}

// Record stores an activity row. Failures are logged and otherwise ignored.
func (c *ActivityLogController) Record(ctx context.Context, userID *int64, action string) {
	if _, err := c.deps.WriteDB.Exec(ctx,
		`INSERT INTO activity_logs (user_id, action, "timestamp") VALUES ($1, $2, $3)`,
		userID, action, c.now(),
	); err != nil {
		c.deps.Logger.Warn("Error recording activity", slog.String("action", action), slog.String("error", err.Error()))
	}
}

// Export writes the activity log listing as an xlsx workbook.
func (c *ActivityLogController) Export(ctx context.Context, filter entity.ActivityLogFilter, w io.Writer) error {
	logs, err := c.GetActivityLogs(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err = f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := []any{"ID", "User ID", "Kode Pegawai", "Nama", "Aksi", "Waktu"}
	if err = f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, l := range logs {
		cell, cellErr := excelize.CoordinatesToCellName(1, i+2)
		if cellErr != nil {
			return cellErr
		}

		row := []any{l.ID, deref(l.UserID), deref(l.KodePegawai), deref(l.UserName), l.Action, l.Timestamp.Format(time.DateTime)}
		if err = f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err = f.WriteTo(w); err != nil {
		c.deps.Logger.Error("Error writing activity log export", slog.String("error", err.Error()))
		return err
	}

	return nil
}

func deref[T any](v *T) any {
	if v == nil {
		return ""
	}

	return *v
}
