// Package notification delivers fire-and-forget pushes. Delivery failure is
// logged and never rolls back a booking.
package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	providerRepo "lexbook/database/repository/provider"
	userRepo "lexbook/database/repository/user"
	"lexbook/models"
	"lexbook/utils"
)

// Notifier emits the "appointment confirmed" event to both parties.
type Notifier interface {
	NotifyAppointmentConfirmed(ctx context.Context, evt models.AppointmentConfirmedEvent) error
}

// FCMNotifier sends pushes through Firebase Cloud Messaging. Contacts in the
// event are user and provider identifiers; the notifier resolves their device
// tokens itself.
type FCMNotifier struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
	Logger    *zap.Logger
}

func (n *FCMNotifier) NotifyAppointmentConfirmed(ctx context.Context, evt models.AppointmentConfirmedEvent) error {
	data := map[string]string{
		"appointmentId": evt.AppointmentID,
		"scheduledAt":   evt.ScheduledAt.Format("2006-01-02 15:04"),
	}

	var firstErr error
	if token := n.clientToken(ctx, evt.ClientContact); token != "" {
		if err := n.push(ctx, token, "Consultation confirmed",
			fmt.Sprintf("Your consultation on %s is confirmed.", data["scheduledAt"]), data); err != nil {
			n.Logger.Warn("client confirmation push failed",
				zap.String("appointmentId", evt.AppointmentID), zap.Error(err))
			firstErr = err
		}
	}
	if token := n.providerToken(ctx, evt.ProviderContact); token != "" {
		if err := n.push(ctx, token, "New consultation booked",
			fmt.Sprintf("A consultation on %s has been confirmed.", data["scheduledAt"]), data); err != nil {
			n.Logger.Warn("provider confirmation push failed",
				zap.String("appointmentId", evt.AppointmentID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (n *FCMNotifier) clientToken(ctx context.Context, userID string) string {
	u, err := n.Users.GetByID(ctx, userID)
	if err != nil {
		n.Logger.Warn("could not resolve client for push", zap.String("userId", userID), zap.Error(err))
		return ""
	}
	return u.FCMToken
}

func (n *FCMNotifier) providerToken(ctx context.Context, providerID string) string {
	p, err := n.Providers.GetByID(ctx, providerID)
	if err != nil {
		n.Logger.Warn("could not resolve provider for push", zap.String("providerId", providerID), zap.Error(err))
		return ""
	}
	return p.Profile.FCMToken
}

func (n *FCMNotifier) push(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
