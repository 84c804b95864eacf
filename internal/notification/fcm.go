package notification

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/matchpoint-app/matchpoint/internal/domain"
)

// MessagingClient is the subset of the Firebase messaging client used for
// push delivery
type MessagingClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMNotifier sends push notifications to every registered device of a
// user through Firebase Cloud Messaging
type FCMNotifier struct {
	client    MessagingClient
	tokenRepo domain.DeviceTokenRepository
}

// NewFCMNotifier creates a new FCMNotifier
func NewFCMNotifier(client MessagingClient, tokenRepo domain.DeviceTokenRepository) *FCMNotifier {
	return &FCMNotifier{
		client:    client,
		tokenRepo: tokenRepo,
	}
}

// SendToUser delivers a notification to all of the user's devices.
// Stale tokens reported by FCM are pruned from the store.
func (n *FCMNotifier) SendToUser(ctx context.Context, userID, title, body string) error {
	deviceTokens, err := n.tokenRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(deviceTokens) == 0 {
		return nil
	}

	tokens := make([]string, len(deviceTokens))
	for i, dt := range deviceTokens {
		tokens[i] = dt.Token
	}

	resp, err := n.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return fmt.Errorf("fcm multicast failed: %w", err)
	}

	for i, result := range resp.Responses {
		if result.Error != nil && messaging.IsUnregistered(result.Error) {
			if delErr := n.tokenRepo.DeleteByToken(ctx, tokens[i]); delErr != nil {
				log.Printf("[FCM] Failed to prune stale token: %v", delErr)
			}
		}
	}

	if resp.FailureCount > 0 {
		log.Printf("[FCM] Delivered %d/%d notifications to user %s",
			resp.SuccessCount, len(tokens), userID)
	}
	return nil
}

// RegisterToken stores or refreshes a device token for a user
func (n *FCMNotifier) RegisterToken(ctx context.Context, userID, token, platform string) error {
	return n.tokenRepo.Upsert(ctx, &domain.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}
