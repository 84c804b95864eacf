package domain

import (
	"context"
	"time"
)

// MiniApp is a downloadable mobile mini-app bundle exposed to clients
type MiniApp struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Code             string    `bson:"code" json:"code"`
	IOSBundleURL     string    `bson:"ios_bundle_url" json:"iosBundleUrl"`
	AndroidBundleURL string    `bson:"android_bundle_url" json:"androidBundleUrl"`
	Level            int       `bson:"level" json:"level"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// MiniAppRepository defines operations for managing mini-apps
type MiniAppRepository interface {
	Create(ctx context.Context, app *MiniApp) error
	GetByID(ctx context.Context, id string) (*MiniApp, error)
	GetByCode(ctx context.Context, code string) (*MiniApp, error)
	List(ctx context.Context) ([]*MiniApp, error)
	Update(ctx context.Context, app *MiniApp) error
	Delete(ctx context.Context, id string) error
}
