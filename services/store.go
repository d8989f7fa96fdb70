package services

import (
	"context"

	"amoria_server/models"
)

// DataStore is the transactional data-access boundary the interaction, call
// and chat services operate against. The production implementation is
// DynamoStore; tests substitute an in-memory one.
//
// Atomicity contract: PassProfile and DeleteLikeAndMatch execute all of their
// writes as one indivisible unit, GetLikeEdge is a strongly-consistent read,
// and CreateMatchRecord is an atomic check-and-insert on the pair key.
type DataStore interface {
	// Profiles
	GetProfile(ctx context.Context, profileID string) (*models.UserProfile, error)
	GetProfileSummaries(ctx context.Context, profileIDs []string) (map[string]models.ProfileSummary, error)
	UpdateProfileCallable(ctx context.Context, profileID string, isCallable bool) error

	// Like edges. PutLikeEdge creates the edge only when it is absent: an
	// existing edge keeps its isNew flag and timestamp.
	PutLikeEdge(ctx context.Context, edge models.LikeEdge) error
	GetLikeEdge(ctx context.Context, senderProfileID, targetProfileID string) (*models.LikeEdge, error)
	QueryLikesSent(ctx context.Context, senderProfileID string) ([]models.LikeEdge, error)
	QueryLikesReceived(ctx context.Context, targetProfileID string) ([]models.LikeEdge, error)
	ClearLikeEdgeNew(ctx context.Context, senderProfileID, targetProfileID string) error

	// Match records. CreateMatchRecord returns false when the record already
	// exists; the caller that sees true is the one that completed the pair.
	CreateMatchRecord(ctx context.Context, record models.MatchRecord) (bool, error)

	// DeleteLikeAndMatch removes the directed edge and the pair's match
	// record in one unit (unlike).
	DeleteLikeAndMatch(ctx context.Context, senderProfileID, targetProfileID string) error

	// PassProfile removes both like edges and the match record and upserts
	// the hidden edge in one unit.
	PassProfile(ctx context.Context, hidden models.HiddenEdge) error

	// Hidden edges
	DeleteHiddenEdge(ctx context.Context, senderProfileID, targetProfileID string) error
	QueryHiddenEdges(ctx context.Context, senderProfileID string) ([]models.HiddenEdge, error)

	// Conversations
	GetConversation(ctx context.Context, conversationID string) (*models.Conversation, []models.Participant, error)
	PutConversation(ctx context.Context, conversation models.Conversation, participants []models.Participant) error
	SetConversationStatus(ctx context.Context, conversationID, status string) error
	FindConversationBetween(ctx context.Context, profileA, profileB string) (*models.Conversation, error)

	// SetConversationCallRoom persists the room id as one unit guarded on
	// the conversation still being ACCEPTED and the callee still being
	// callable at both the participant and the profile level; returns false
	// when any guard fails.
	SetConversationCallRoom(ctx context.Context, conversationID, roomID, calleeProfileID string) (bool, error)
	UpdateParticipantCallable(ctx context.Context, conversationID, profileID string, isCallable bool) error

	// Messages
	InsertMessage(ctx context.Context, message models.Message) error
	QueryMessages(ctx context.Context, conversationID string, limit int32) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerProfileID string) error
}
