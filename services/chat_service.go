package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"amoria_server/models"

	"github.com/google/uuid"
)

// ChatService manages conversations and their messages. It also implements
// the ConversationAccepter collaborator the interaction engine invokes when a
// match forms.
type ChatService struct {
	Store    DataStore
	Notifier EventNotifier
}

// StartConversation creates an INITIATED conversation between the two
// profiles carrying the opening message. Participants start out callable at
// the conversation level; the profile-level flag still gates actual calls.
func (s *ChatService) StartConversation(ctx context.Context, initiatorProfileID, targetProfileID, content string) (*models.Conversation, error) {
	if initiatorProfileID == targetProfileID {
		return nil, models.NewAppError(models.CodeInvalidOperation, "a profile cannot message itself")
	}

	existing, err := s.Store.FindConversationBetween(ctx, initiatorProfileID, targetProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing conversation: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	conversation := models.Conversation{
		ConversationID:     uuid.NewString(),
		Status:             models.ConversationInitiated,
		InitiatorProfileID: initiatorProfileID,
		CreatedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	participants := []models.Participant{
		{ConversationID: conversation.ConversationID, ProfileID: initiatorProfileID, IsCallable: true},
		{ConversationID: conversation.ConversationID, ProfileID: targetProfileID, IsCallable: true},
	}
	if err := s.Store.PutConversation(ctx, conversation, participants); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	if content != "" {
		if err := s.SendMessage(ctx, conversation.ConversationID, initiatorProfileID, content); err != nil {
			return nil, err
		}
	}
	return &conversation, nil
}

// AcceptConversation flips one conversation to ACCEPTED.
func (s *ChatService) AcceptConversation(ctx context.Context, conversationID string) error {
	conversation, _, err := s.Store.GetConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}
	if conversation == nil {
		return models.NewAppError(models.CodeNotFound, "conversation does not exist")
	}
	if conversation.Status == models.ConversationAccepted {
		return nil
	}
	if err := s.Store.SetConversationStatus(ctx, conversationID, models.ConversationAccepted); err != nil {
		return fmt.Errorf("failed to accept conversation: %w", err)
	}
	return nil
}

// AcceptConversationBetween accepts whatever pending conversation exists
// between the two profiles. A pair without one is fine: the match simply has
// no conversation yet.
func (s *ChatService) AcceptConversationBetween(ctx context.Context, profileA, profileB string) error {
	conversation, err := s.Store.FindConversationBetween(ctx, profileA, profileB)
	if err != nil {
		return fmt.Errorf("failed to look up conversation: %w", err)
	}
	if conversation == nil || conversation.Status == models.ConversationAccepted {
		return nil
	}
	if conversation.Status != models.ConversationInitiated {
		// Declined or blocked conversations stay that way.
		return nil
	}
	log.Printf("✅ Accepting conversation %s after match of %s and %s", conversation.ConversationID, profileA, profileB)
	return s.Store.SetConversationStatus(ctx, conversation.ConversationID, models.ConversationAccepted)
}

// SharesConversation reports whether both profiles participate in the
// conversation. The realtime gateway consults it before relaying a
// client-addressed call status event.
func (s *ChatService) SharesConversation(ctx context.Context, conversationID, profileA, profileB string) (bool, error) {
	conversation, participants, err := s.Store.GetConversation(ctx, conversationID)
	if err != nil {
		return false, fmt.Errorf("failed to load conversation: %w", err)
	}
	if conversation == nil {
		return false, nil
	}

	foundA, foundB := false, false
	for _, participant := range participants {
		if participant.ProfileID == profileA {
			foundA = true
		}
		if participant.ProfileID == profileB {
			foundB = true
		}
	}
	return foundA && foundB, nil
}

// SendMessage stores a message and pushes a new_message event to the other
// participant (the notifier escalates when they are offline).
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderProfileID, content string) error {
	conversation, participants, err := s.Store.GetConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}
	if conversation == nil {
		return models.NewAppError(models.CodeNotFound, "conversation does not exist")
	}

	var recipientID string
	isParticipant := false
	for _, participant := range participants {
		if participant.ProfileID == senderProfileID {
			isParticipant = true
		} else {
			recipientID = participant.ProfileID
		}
	}
	if !isParticipant {
		return models.NewAppError(models.CodeNotParticipant, "sender is not part of this conversation")
	}

	message := models.Message{
		ConversationID:  conversationID,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
		MessageID:       uuid.NewString(),
		SenderProfileID: senderProfileID,
		Type:            models.MessageTypeText,
		Content:         content,
		IsUnread:        true,
	}
	if err := s.Store.InsertMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	if recipientID != "" {
		s.Notifier.Notify(ctx, recipientID, models.RealtimeEvent{
			Type: models.EventNewMessage,
			Payload: models.NewMessagePayload{
				ConversationID:  conversationID,
				MessageID:       message.MessageID,
				SenderProfileID: senderProfileID,
				Content:         content,
				CreatedAt:       message.CreatedAt,
			},
		})
	}
	return nil
}

// GetMessages fetches messages for a conversation, newest first.
func (s *ChatService) GetMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	return s.Store.QueryMessages(ctx, conversationID, int32(limit))
}

// MarkMessagesAsRead marks the messages the reader received as read.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, conversationID, readerProfileID string) error {
	return s.Store.MarkMessagesRead(ctx, conversationID, readerProfileID)
}
