package services

import (
	"context"
	"errors"
	"testing"

	"amoria_server/models"
	"amoria_server/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct {
	open bool
	sent [][]byte
}

func (c *fakeConnection) IsOpen() bool { return c.open }

func (c *fakeConnection) Send(data []byte) error {
	c.sent = append(c.sent, data)
	return nil
}

type recordingMailer struct {
	recipients []string
	eventTypes []string
	err        error
}

func (m *recordingMailer) SendEventMail(_ context.Context, recipientEmail, eventType string) error {
	m.recipients = append(m.recipients, recipientEmail)
	m.eventTypes = append(m.eventTypes, eventType)
	return m.err
}

func newNotificationFixture() (*NotificationService, *realtime.InMemoryRegistry, *memoryStore, *recordingMailer) {
	registry := realtime.NewInMemoryRegistry()
	store := newMemoryStore()
	mailer := &recordingMailer{}
	service := &NotificationService{
		Broadcaster: realtime.NewBroadcaster(registry),
		Store:       store,
		Mailer:      mailer,
	}
	return service, registry, store, mailer
}

func TestNotifyPrefersOpenConnection(t *testing.T) {
	service, registry, store, mailer := newNotificationFixture()
	store.addProfile(models.UserProfile{ProfileID: "alice", Email: "alice@example.com", EmailOnEvent: true})

	conn := &fakeConnection{open: true}
	registry.Add("alice", conn)

	service.Notify(context.Background(), "alice", models.RealtimeEvent{Type: models.EventNewLike})

	require.Len(t, conn.sent, 1)
	assert.Empty(t, mailer.recipients, "socket delivery must not escalate to email")
}

func TestNotifyFallsBackToEmailWhenOffline(t *testing.T) {
	service, _, store, mailer := newNotificationFixture()
	store.addProfile(models.UserProfile{ProfileID: "alice", Email: "alice@example.com", EmailOnEvent: true})

	service.Notify(context.Background(), "alice", models.RealtimeEvent{Type: models.EventNewMatch})

	require.Len(t, mailer.recipients, 1)
	assert.Equal(t, "alice@example.com", mailer.recipients[0])
	assert.Equal(t, models.EventNewMatch, mailer.eventTypes[0])
}

func TestNotifySkipsEmailWithoutOptIn(t *testing.T) {
	service, _, store, mailer := newNotificationFixture()
	store.addProfile(models.UserProfile{ProfileID: "alice", Email: "alice@example.com", EmailOnEvent: false})

	service.Notify(context.Background(), "alice", models.RealtimeEvent{Type: models.EventNewMatch})

	assert.Empty(t, mailer.recipients)
}

func TestNotifySwallowsMailerFailure(t *testing.T) {
	service, _, store, mailer := newNotificationFixture()
	store.addProfile(models.UserProfile{ProfileID: "alice", Email: "alice@example.com", EmailOnEvent: true})
	mailer.err = errors.New("smtp down")

	// Must not panic or surface the error.
	service.Notify(context.Background(), "alice", models.RealtimeEvent{Type: models.EventNewMessage})

	require.Len(t, mailer.recipients, 1)
}

func TestNotifyUnknownProfileIsSilent(t *testing.T) {
	service, _, _, mailer := newNotificationFixture()

	service.Notify(context.Background(), "ghost", models.RealtimeEvent{Type: models.EventNewLike})

	assert.Empty(t, mailer.recipients)
}

func TestResolveChannel(t *testing.T) {
	service, registry, store, _ := newNotificationFixture()
	store.addProfile(models.UserProfile{ProfileID: "alice", Email: "alice@example.com", EmailOnEvent: true})
	store.addProfile(models.UserProfile{ProfileID: "bob"})
	ctx := context.Background()

	registry.Add("alice", &fakeConnection{open: true})
	channel, err := service.ResolveChannel(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, ChannelSocket, channel)

	registry.Remove("alice", registry.Connections("alice")[0])
	channel, err = service.ResolveChannel(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, ChannelEmail, channel)

	channel, err = service.ResolveChannel(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, ChannelNone, channel)
}
