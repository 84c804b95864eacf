package domain

import (
	"context"
	"time"
)

// DeviceToken maps a user to an FCM registration token. A user may hold
// several tokens (one per installed device).
type DeviceToken struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Token     string    `bson:"token" json:"token"`
	Platform  string    `bson:"platform,omitempty" json:"platform,omitempty"` // ios, android, web
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DeviceTokenRepository defines operations for push registration tokens
type DeviceTokenRepository interface {
	// Upsert registers a token, replacing an existing entry for the same
	// token string
	Upsert(ctx context.Context, dt *DeviceToken) error
	GetByUserID(ctx context.Context, userID string) ([]*DeviceToken, error)
	DeleteByToken(ctx context.Context, token string) error
}
