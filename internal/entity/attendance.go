package entity

import "time"

// Attendance is one absensi row. Date and clock times are rendered by the
// database as text so they reach the client exactly as stored.
type Attendance struct {
	ID        int64   `json:"id" db:"id"`
	Date      string  `json:"date" db:"date"`
	JamMasuk  *string `json:"jam_masuk" db:"jam_masuk"`
	JamPulang *string `json:"jam_pulang" db:"jam_pulang"`
	Durasi    *string `json:"durasi" db:"durasi"`
}

type AttendanceFilter struct {
	From  *time.Time
	To    *time.Time
	Limit uint64
}
