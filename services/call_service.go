package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"amoria_server/models"

	"github.com/google/uuid"
)

// CallService drives the conversation-to-active-call transition and records
// missed calls. The missed-call timeout itself is the caller's concern.
type CallService struct {
	Store DataStore
}

// InitiateCall validates that the conversation can carry a call right now,
// persists a fresh room id onto it (overwriting any prior room: one active
// room per conversation) and returns what the caller needs to ring the other
// side. Validation order: existence, acceptance, membership, partner
// presence, callability on both the participant and the profile level.
func (s *CallService) InitiateCall(ctx context.Context, conversationID, callerProfileID string) (*models.CallSession, error) {
	conversation, participants, err := s.Store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	if conversation == nil {
		return nil, models.NewAppError(models.CodeNotFound, "conversation does not exist")
	}
	if conversation.Status != models.ConversationAccepted {
		return nil, models.NewAppError(models.CodeConversationNotAccepted, "conversation is not accepted")
	}

	var caller, callee *models.Participant
	for i := range participants {
		if participants[i].ProfileID == callerProfileID {
			caller = &participants[i]
		} else {
			callee = &participants[i]
		}
	}
	if caller == nil {
		return nil, models.NewAppError(models.CodeNotParticipant, "caller is not part of this conversation")
	}
	if callee == nil {
		return nil, models.NewAppError(models.CodePartnerNotFound, "conversation has no second participant")
	}
	if !callee.IsCallable {
		return nil, models.NewAppError(models.CodeNotCallable, "partner is not reachable for calls")
	}

	calleeProfile, err := s.Store.GetProfile(ctx, callee.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load callee profile: %w", err)
	}
	if calleeProfile == nil || !calleeProfile.IsCallable {
		return nil, models.NewAppError(models.CodeNotCallable, "partner is not reachable for calls")
	}

	callerProfile, err := s.Store.GetProfile(ctx, callerProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load caller profile: %w", err)
	}
	callerName := ""
	if callerProfile != nil {
		callerName = callerProfile.PublicName
	}

	roomID := "room-" + uuid.NewString()
	ok, err := s.Store.SetConversationCallRoom(ctx, conversationID, roomID, callee.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to persist call room: %w", err)
	}
	if !ok {
		// Status or a callable flag flipped between the validation reads and
		// the guarded write; re-read to report the precise reason.
		current, _, err := s.Store.GetConversation(ctx, conversationID)
		if err == nil && current != nil && current.Status != models.ConversationAccepted {
			return nil, models.NewAppError(models.CodeConversationNotAccepted, "conversation is not accepted")
		}
		return nil, models.NewAppError(models.CodeNotCallable, "partner is not reachable for calls")
	}

	log.Printf("📞 Call initiated on conversation %s, room %s", conversationID, roomID)
	return &models.CallSession{
		RoomName:         roomID,
		CalleeProfileID:  callee.ProfileID,
		CallerPublicName: callerName,
	}, nil
}

// InsertMissedCallMessage records an unanswered call as a system message in
// the conversation history, attributed to the caller.
func (s *CallService) InsertMissedCallMessage(ctx context.Context, conversationID, callerProfileID string) error {
	message := models.Message{
		ConversationID:  conversationID,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
		MessageID:       uuid.NewString(),
		SenderProfileID: callerProfileID,
		Type:            models.MessageTypeMissedCall,
		Content:         models.MissedCallContent,
		IsUnread:        true,
	}
	if err := s.Store.InsertMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to insert missed call message: %w", err)
	}
	return nil
}

// UpdateCallableStatus flips the participant-level callable flag for one
// (conversation, profile) pair; the profile-level flag is untouched.
func (s *CallService) UpdateCallableStatus(ctx context.Context, conversationID, profileID string, isCallable bool) error {
	if err := s.Store.UpdateParticipantCallable(ctx, conversationID, profileID, isCallable); err != nil {
		return fmt.Errorf("failed to update callable status: %w", err)
	}
	return nil
}
