package entity

import "time"

// LeaveRequest is a cuti-izin row.
type LeaveRequest struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Jenis          string    `json:"jenis" db:"jenis"`
	TanggalMulai   string    `json:"tanggal_mulai" db:"tanggal_mulai"`
	TanggalSelesai string    `json:"tanggal_selesai" db:"tanggal_selesai"`
	Alasan         string    `json:"alasan" db:"alasan"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Approval is one ordered approval step of a cuti-izin request.
type Approval struct {
	ID            int64      `json:"id" db:"id"`
	CutiIzinID    int64      `json:"cuti_izin_id" db:"cuti_izin_id"`
	ApproverID    *int64     `json:"approver_id" db:"approver_id"`
	ApproverName  *string    `json:"approver_name" db:"approver_name"`
	ApproverRole  string     `json:"approver_role" db:"approver_role"`
	ApprovalLevel int32      `json:"approval_level" db:"approval_level"`
	Status        string     `json:"status" db:"status"`
	Notes         *string    `json:"notes" db:"notes"`
	ApprovedAt    *time.Time `json:"approved_at" db:"approved_at"`
}
