package services

import (
	"context"
	"strings"
	"testing"

	"amoria_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCallFixture() (*CallService, *memoryStore) {
	store := newMemoryStore()
	store.addProfile(models.UserProfile{ProfileID: "alice", PublicName: "Alice", IsCallable: true})
	store.addProfile(models.UserProfile{ProfileID: "bob", PublicName: "Bob", IsCallable: true})
	store.addConversation(
		models.Conversation{ConversationID: "conv-1", Status: models.ConversationAccepted, InitiatorProfileID: "alice"},
		models.Participant{ConversationID: "conv-1", ProfileID: "alice", IsCallable: true},
		models.Participant{ConversationID: "conv-1", ProfileID: "bob", IsCallable: true},
	)
	return &CallService{Store: store}, store
}

func requireCallRejected(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestInitiateCallOnMissingConversation(t *testing.T) {
	service, _ := newCallFixture()

	_, err := service.InitiateCall(context.Background(), "no-such-conversation", "alice")
	requireCallRejected(t, err, models.CodeNotFound)
}

func TestInitiateCallOnUnacceptedConversation(t *testing.T) {
	service, store := newCallFixture()
	store.addConversation(
		models.Conversation{ConversationID: "conv-2", Status: models.ConversationInitiated, InitiatorProfileID: "alice"},
		models.Participant{ConversationID: "conv-2", ProfileID: "alice", IsCallable: true},
		models.Participant{ConversationID: "conv-2", ProfileID: "bob", IsCallable: true},
	)

	_, err := service.InitiateCall(context.Background(), "conv-2", "alice")
	requireCallRejected(t, err, models.CodeConversationNotAccepted)
}

func TestInitiateCallByNonParticipant(t *testing.T) {
	service, store := newCallFixture()
	store.addProfile(models.UserProfile{ProfileID: "carol", PublicName: "Carol", IsCallable: true})

	_, err := service.InitiateCall(context.Background(), "conv-1", "carol")
	requireCallRejected(t, err, models.CodeNotParticipant)
}

func TestInitiateCallWithoutPartner(t *testing.T) {
	service, store := newCallFixture()
	store.addConversation(
		models.Conversation{ConversationID: "conv-3", Status: models.ConversationAccepted, InitiatorProfileID: "alice"},
		models.Participant{ConversationID: "conv-3", ProfileID: "alice", IsCallable: true},
	)

	_, err := service.InitiateCall(context.Background(), "conv-3", "alice")
	requireCallRejected(t, err, models.CodePartnerNotFound)
}

func TestInitiateCallWithUncallableParticipant(t *testing.T) {
	service, store := newCallFixture()
	require.NoError(t, store.UpdateParticipantCallable(context.Background(), "conv-1", "bob", false))

	_, err := service.InitiateCall(context.Background(), "conv-1", "alice")
	requireCallRejected(t, err, models.CodeNotCallable)
}

func TestInitiateCallWithUncallableProfile(t *testing.T) {
	service, store := newCallFixture()
	// Participant-level flag stays true; the profile-level flag alone blocks.
	require.NoError(t, store.UpdateProfileCallable(context.Background(), "bob", false))

	_, err := service.InitiateCall(context.Background(), "conv-1", "alice")
	requireCallRejected(t, err, models.CodeNotCallable)
}

// staleCallableStore reads conversations as if every participant were still
// callable, while the guarded write sees the real flags. This reproduces a
// flag flip landing between the validation reads and the room write.
type staleCallableStore struct {
	*memoryStore
}

func (s *staleCallableStore) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, []models.Participant, error) {
	conversation, participants, err := s.memoryStore.GetConversation(ctx, conversationID)
	for i := range participants {
		participants[i].IsCallable = true
	}
	return conversation, participants, err
}

func TestInitiateCallGuardCatchesCallableFlip(t *testing.T) {
	_, store := newCallFixture()
	ctx := context.Background()
	require.NoError(t, store.UpdateParticipantCallable(ctx, "conv-1", "bob", false))

	service := &CallService{Store: &staleCallableStore{memoryStore: store}}
	_, err := service.InitiateCall(ctx, "conv-1", "alice")
	requireCallRejected(t, err, models.CodeNotCallable)

	conversation, _, err := store.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, conversation.CallRoomID, "a rejected call must not persist a room")
}

func TestSetConversationCallRoomGuards(t *testing.T) {
	_, store := newCallFixture()
	ctx := context.Background()

	require.NoError(t, store.UpdateParticipantCallable(ctx, "conv-1", "bob", false))
	ok, err := store.SetConversationCallRoom(ctx, "conv-1", "room-x", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.UpdateParticipantCallable(ctx, "conv-1", "bob", true))
	require.NoError(t, store.UpdateProfileCallable(ctx, "bob", false))
	ok, err = store.SetConversationCallRoom(ctx, "conv-1", "room-x", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.UpdateProfileCallable(ctx, "bob", true))
	require.NoError(t, store.SetConversationStatus(ctx, "conv-1", models.ConversationDeclined))
	ok, err = store.SetConversationCallRoom(ctx, "conv-1", "room-x", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetConversationStatus(ctx, "conv-1", models.ConversationAccepted))
	ok, err = store.SetConversationCallRoom(ctx, "conv-1", "room-x", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInitiateCallSuccess(t *testing.T) {
	service, store := newCallFixture()
	ctx := context.Background()

	call, err := service.InitiateCall(ctx, "conv-1", "alice")
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.True(t, strings.HasPrefix(call.RoomName, "room-"))
	assert.Equal(t, "bob", call.CalleeProfileID)
	assert.Equal(t, "Alice", call.CallerPublicName)

	conversation, _, err := store.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, conversation)
	assert.Equal(t, call.RoomName, conversation.CallRoomID)
}

func TestInitiateCallOverwritesPriorRoom(t *testing.T) {
	service, store := newCallFixture()
	ctx := context.Background()

	first, err := service.InitiateCall(ctx, "conv-1", "alice")
	require.NoError(t, err)
	second, err := service.InitiateCall(ctx, "conv-1", "bob")
	require.NoError(t, err)
	assert.NotEqual(t, first.RoomName, second.RoomName)

	conversation, _, err := store.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, second.RoomName, conversation.CallRoomID)
}

func TestInsertMissedCallMessage(t *testing.T) {
	service, store := newCallFixture()
	ctx := context.Background()

	require.NoError(t, service.InsertMissedCallMessage(ctx, "conv-1", "alice"))

	messages, err := store.QueryMessages(ctx, "conv-1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.MessageTypeMissedCall, messages[0].Type)
	assert.Equal(t, models.MissedCallContent, messages[0].Content)
	assert.Equal(t, "alice", messages[0].SenderProfileID)
	assert.True(t, messages[0].IsUnread)
}

func TestUpdateCallableStatus(t *testing.T) {
	service, store := newCallFixture()
	ctx := context.Background()

	require.NoError(t, service.UpdateCallableStatus(ctx, "conv-1", "bob", false))

	_, participants, err := store.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	for _, participant := range participants {
		if participant.ProfileID == "bob" {
			assert.False(t, participant.IsCallable)
		}
	}
}
