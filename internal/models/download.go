package models

import "time"

// Download is the join record between a user and an app they downloaded.
// The composite primary key is what makes a repeat download a no-op: a
// concurrent second insert fails on the key instead of double-debiting.
type Download struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	AppID     uint      `json:"app_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
