package controllers

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/jackc/pgx/v5"
)

type LeaveController struct {
	deps *Dependens
}

func NewLeaveController(deps *Dependens) *LeaveController {
	return &LeaveController{
		deps: deps,
	}
}

// GetApprovals lists the approval steps of one cuti-izin request in level
// order, ties broken by id.
func (c *LeaveController) GetApprovals(ctx context.Context, requestID int64) ([]entity.Approval, error) {
	query := `SELECT a.id, a.cuti_izin_id, a.approver_id, u.name AS approver_name, a.approver_role,
                     a.approval_level, a.status, a.notes, a.approved_at
              FROM cuti_izin_approval a
              LEFT JOIN users u ON u.id = a.approver_id
              WHERE a.cuti_izin_id = $1
              ORDER BY a.approval_level ASC, a.id ASC`

	rows, err := c.deps.DB.Query(ctx, query, requestID)
	if err != nil {
		c.deps.Logger.Error("Error querying approvals", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	approvals, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Approval])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	slices.SortStableFunc(approvals, func(a, b entity.Approval) int {
		return cmp.Or(cmp.Compare(a.ApprovalLevel, b.ApprovalLevel), cmp.Compare(a.ID, b.ID))
	})

	return approvals, nil
}

func (c *LeaveController) GetLeaveRequests(ctx context.Context, userID int64) ([]entity.LeaveRequest, error) {
	query := `SELECT id, user_id, jenis, tanggal_mulai::text AS tanggal_mulai, tanggal_selesai::text AS tanggal_selesai,
                     alasan, status, created_at
              FROM cuti_izin
              WHERE user_id = $1
              ORDER BY created_at DESC, id DESC`

	rows, err := c.deps.DB.Query(ctx, query, userID)
	if err != nil {
		c.deps.Logger.Error("Error querying leave requests", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.LeaveRequest])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return requests, nil
}
