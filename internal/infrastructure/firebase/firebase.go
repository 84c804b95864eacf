package firebase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/matchpoint-app/matchpoint/internal/config"
	"google.golang.org/api/option"
)

// InitApp initializes the Firebase Admin SDK from the split credential
// environment variables. The private key arrives base64 encoded so it can
// live in a single env var.
func InitApp(ctx context.Context, cfg config.FirebaseConfig) (*firebase.App, error) {
	privateKey, err := base64.StdEncoding.DecodeString(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode firebase private key: %w", err)
	}

	credentials, err := json.Marshal(map[string]interface{}{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"private_key":  string(privateKey),
		"client_email": cfg.ClientEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx,
		&firebase.Config{StorageBucket: cfg.Bucket},
		option.WithCredentialsJSON(credentials),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return app, nil
}
