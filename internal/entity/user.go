package entity

import "github.com/golang-jwt/jwt/v5"

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	KodePegawai string  `json:"kode_pegawai" db:"kode_pegawai"`
	Role        string  `json:"role" db:"role"`
	RoleID      int64   `json:"roleId" db:"role_id"`
	CabangID    *int64  `json:"cabang_id" db:"cabang_id"`
	KodeDivisi  *string `json:"-" db:"kode_divisi"`
	Status      string  `json:"-" db:"status"`
}

// Session is the authenticated caller resolved from a request.
type Session struct {
	UserID      int64
	KodePegawai string
	Role        string
	RoleID      int64
	Token       string
}

type Claims struct {
	jwt.RegisteredClaims

	UserID      int64  `json:"user_id"`
	KodePegawai string `json:"kode_pegawai"`
	Role        string `json:"role"`
	RoleID      int64  `json:"role_id"`
	TokenID     string `json:"token_id"`
}

type LoginRequest struct {
	KodePegawai string `json:"kode_pegawai" validate:"required,max=64"`
	Password    string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}
