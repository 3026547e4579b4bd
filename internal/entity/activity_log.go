package entity

import "time"

type ActivityLog struct {
	ID          int64     `json:"id" db:"id"`
	UserID      *int64    `json:"user_id" db:"user_id"`
	Action      string    `json:"action" db:"action"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	UserName    *string   `json:"user_name" db:"user_name"`
	KodePegawai *string   `json:"kode_pegawai" db:"kode_pegawai"`
}

type ActivityLogFilter struct {
	UserID *int64
	Limit  uint64
}
