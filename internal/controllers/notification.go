package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const DefaultNotificationLimit = 50

// foreignKeyViolation is the SQLSTATE postgres reports for a dangling user_id.
const foreignKeyViolation = "23503"

type NotificationController struct {
	deps     *Dependens
	pusher   Pusher
	activity *ActivityLogController
}

func NewNotificationController(deps *Dependens, pusher Pusher, activity *ActivityLogController) *NotificationController {
	return &NotificationController{
		deps:     deps,
		pusher:   pusher,
		activity: activity,
	}
}

func (c *NotificationController) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count *int64

	query := `SELECT COALESCE(COUNT(*), 0) FROM notifications WHERE user_id = $1 AND is_read = false`
	if err := c.deps.DB.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		c.deps.Logger.Error("Error counting notifications", slog.String("error", err.Error()))
		return 0, err
	}

	if count == nil {
		return 0, nil
	}

	return *count, nil
}

func (c *NotificationController) GetNotifications(ctx context.Context, userID int64, limit int) ([]entity.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}

	query := `SELECT id, user_id, type, title, message, data, is_read, created_at
              FROM notifications
              WHERE user_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2`

	rows, err := c.deps.DB.Query(ctx, query, userID, limit)
	if err != nil {
		c.deps.Logger.Error("Error querying notifications", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	notifications, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Notification])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return notifications, nil
}

func (c *NotificationController) MarkRead(ctx context.Context, userID, id int64) error {
	result, err := c.deps.WriteDB.Exec(ctx,
		"UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		c.deps.Logger.Error("Error marking notification read", slog.String("error", err.Error()))
		return err
	}

	if result.RowsAffected() == 0 {
		c.deps.Logger.Warn("Notification not found", slog.Int64("id", id), slog.Int64("user_id", userID))
		return ErrNotFound
	}

	return nil
}

func (c *NotificationController) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	result, err := c.deps.WriteDB.Exec(ctx,
		"UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false", userID)
	if err != nil {
		c.deps.Logger.Error("Error marking notifications read", slog.String("error", err.Error()))
		return 0, err
	}

	return result.RowsAffected(), nil
}

// CreateNotification stores the notification and pushes it to the
// recipient's live stream if one is open. The returned bool reports the push.
func (c *NotificationController) CreateNotification(ctx context.Context, actorID int64, req *entity.CreateNotificationRequest) (*entity.Notification, bool, error) {
	if err := c.deps.Validate.Struct(req); err != nil {
		c.deps.Logger.Warn("Invalid notification request", slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	n := entity.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
	}
	if len(n.Data) == 0 {
		n.Data = nil
	}

	query := `INSERT INTO notifications (user_id, type, title, message, data)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, is_read, created_at`

	if err := c.deps.WriteDB.QueryRow(ctx, query, n.UserID, n.Type, n.Title, n.Message, n.Data).Scan(
		&n.ID, &n.IsRead, &n.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			c.deps.Logger.Warn("Notification for unknown user", slog.Int64("user_id", n.UserID))
			return nil, false, fmt.Errorf("%w: unknown user_id %d", ErrValidation, n.UserID)
		}

		c.deps.Logger.Error("Error inserting notification", slog.String("error", err.Error()))
		return nil, false, err
	}

	c.activity.Record(ctx, &actorID, fmt.Sprintf("notification %d sent to user %d", n.ID, n.UserID))

	delivered := c.pusher.Send(strconv.FormatInt(n.UserID, 10), n)
	c.deps.Logger.Info("Notification created",
		slog.Int64("id", n.ID),
		slog.Int64("user_id", n.UserID),
		slog.Bool("delivered", delivered),
	)

	return &n, delivered, nil
}
