package services

import (
	"context"
	"fmt"
	"log"

	"amoria_server/models"
	"amoria_server/realtime"
)

// Contact channels a notification can reach a profile on.
const (
	ChannelSocket = "socket"
	ChannelEmail  = "email"
	ChannelNone   = "none"
)

// Mailer is the outbound email collaborator. Dispatch itself is external.
type Mailer interface {
	SendEventMail(ctx context.Context, recipientEmail, eventType string) error
}

// NotificationService resolves the reachable channel for a recipient and
// forwards domain events there: live connections first, email as the offline
// fallback when the profile opted in.
type NotificationService struct {
	Broadcaster *realtime.Broadcaster
	Store       DataStore
	Mailer      Mailer
}

// Notify pushes the event to every open connection of the profile. When none
// is open it escalates to email. Delivery failures are logged, not returned:
// a dead notification must never fail the operation that produced the event.
func (n *NotificationService) Notify(ctx context.Context, profileID string, event models.RealtimeEvent) {
	if n.Broadcaster.Broadcast(profileID, event) {
		return
	}

	if n.Mailer == nil {
		return
	}
	profile, err := n.Store.GetProfile(ctx, profileID)
	if err != nil {
		log.Printf("❌ Failed to resolve profile %s for offline notification: %v", profileID, err)
		return
	}
	if profile == nil || profile.Email == "" || !profile.EmailOnEvent {
		return
	}
	if err := n.Mailer.SendEventMail(ctx, profile.Email, event.Type); err != nil {
		log.Printf("❌ Failed to send %s mail to profile %s: %v", event.Type, profileID, err)
	}
}

// ResolveChannel reports which contact channel currently reaches the profile.
func (n *NotificationService) ResolveChannel(ctx context.Context, profileID string) (string, error) {
	if len(n.Broadcaster.Registry.Connections(profileID)) > 0 {
		return ChannelSocket, nil
	}
	profile, err := n.Store.GetProfile(ctx, profileID)
	if err != nil {
		return ChannelNone, fmt.Errorf("failed to resolve contact channel: %w", err)
	}
	if profile != nil && profile.Email != "" && profile.EmailOnEvent {
		return ChannelEmail, nil
	}
	return ChannelNone, nil
}
