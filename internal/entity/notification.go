package entity

import (
	"encoding/json"
	"time"
)

type Notification struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	Type      string          `json:"type" db:"type"`
	Title     string          `json:"title" db:"title"`
	Message   string          `json:"message" db:"message"`
	Data      json.RawMessage `json:"data,omitempty" db:"data"`
	IsRead    bool            `json:"is_read" db:"is_read"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type CreateNotificationRequest struct {
	UserID  int64           `json:"user_id" validate:"required,gt=0"`
	Type    string          `json:"type" validate:"required,max=64"`
	Title   string          `json:"title" validate:"max=255"`
	Message string          `json:"message" validate:"required"`
	Data    json.RawMessage `json:"data"`
}
