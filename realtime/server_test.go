package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"amoria_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembers struct {
	shared bool
}

func (f *fakeMembers) SharesConversation(_ context.Context, _, _, _ string) (bool, error) {
	return f.shared, nil
}

func newServerFixture(shared bool) (*Server, *stubConnection) {
	registry := NewInMemoryRegistry()
	target := &stubConnection{open: true}
	registry.Add("bob", target)
	server := NewServer(registry, NewBroadcaster(registry), nil, &fakeMembers{shared: shared})
	return server, target
}

func TestClientCallStatusRelayedToParticipant(t *testing.T) {
	server, target := newServerFixture(true)

	server.handleClientEvent("alice", []byte(`{"type":"call_accepted","payload":{"conversationId":"conv-1","roomName":"room-1","targetProfileId":"bob"}}`))

	require.Len(t, target.sent, 1)
	var event struct {
		Type    string                   `json:"type"`
		Payload models.CallStatusPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(target.sent[0], &event))
	assert.Equal(t, models.EventCallAccepted, event.Type)
	assert.Equal(t, "conv-1", event.Payload.ConversationID)
	assert.Equal(t, "room-1", event.Payload.RoomName)
}

func TestClientCallStatusDroppedForNonParticipant(t *testing.T) {
	server, target := newServerFixture(false)

	server.handleClientEvent("mallory", []byte(`{"type":"call_declined","payload":{"conversationId":"conv-1","targetProfileId":"bob"}}`))

	assert.Empty(t, target.sent)
}

func TestClientCallStatusRequiresTargetAndConversation(t *testing.T) {
	server, target := newServerFixture(true)

	server.handleClientEvent("alice", []byte(`{"type":"call_cancelled","payload":{"conversationId":"conv-1"}}`))
	server.handleClientEvent("alice", []byte(`{"type":"call_cancelled","payload":{"targetProfileId":"bob"}}`))

	assert.Empty(t, target.sent)
}

func TestClientEventUnknownTypeIgnored(t *testing.T) {
	server, target := newServerFixture(true)

	server.handleClientEvent("alice", []byte(`{"type":"make_admin","payload":{"targetProfileId":"bob","conversationId":"conv-1"}}`))
	server.handleClientEvent("alice", []byte(`{not json`))

	assert.Empty(t, target.sent)
}
