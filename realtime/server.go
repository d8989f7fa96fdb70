package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"amoria_server/models"

	"github.com/gorilla/websocket"
)

// SessionResolver authenticates an upgrade request; nil session means the
// caller holds no valid session.
type SessionResolver interface {
	Get(ctx context.Context, sessionID string) (*models.Session, error)
}

// MembershipChecker reports whether two profiles share a conversation. Client
// events that address another profile are validated against it before relay.
type MembershipChecker interface {
	SharesConversation(ctx context.Context, conversationID, profileA, profileB string) (bool, error)
}

// Server upgrades HTTP requests to websocket connections and keeps the
// registry in sync with their lifetimes.
type Server struct {
	Registry    Registry
	Broadcaster *Broadcaster
	Sessions    SessionResolver
	Members     MembershipChecker
	upgrader    websocket.Upgrader
}

func NewServer(registry Registry, broadcaster *Broadcaster, sessions SessionResolver, members MembershipChecker) *Server {
	return &Server{
		Registry:    registry,
		Broadcaster: broadcaster,
		Sessions:    sessions,
		Members:     members,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection authenticates the caller through the session store,
// upgrades and registers the connection, then serves its read loop until the
// peer goes away.
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		sessionID = r.URL.Query().Get("sessionId")
	}
	session, err := s.Sessions.Get(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ Session lookup failed during websocket upgrade: %v", err)
		http.Error(w, "session lookup failed", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Websocket upgrade failed: %v", err)
		return
	}

	conn := &wsConnection{ws: ws}
	s.Registry.Add(session.ProfileID, conn)
	log.Printf("✅ Socket connected for profile %s", session.ProfileID)

	go s.readLoop(session.ProfileID, conn)
}

func (s *Server) readLoop(profileID string, conn *wsConnection) {
	defer func() {
		conn.markClosed()
		s.Registry.Remove(profileID, conn)
		conn.ws.Close()
		log.Printf("❌ Socket disconnected for profile %s", profileID)
	}()

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}
		s.handleClientEvent(profileID, data)
	}
}

// clientEnvelope is what a browser sends back over the channel: call status
// transitions addressed at the other participant.
type clientEnvelope struct {
	Type    string `json:"type"`
	Payload struct {
		ConversationID  string `json:"conversationId"`
		RoomName        string `json:"roomName,omitempty"`
		TargetProfileID string `json:"targetProfileId"`
	} `json:"payload"`
}

func (s *Server) handleClientEvent(profileID string, data []byte) {
	var envelope clientEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Printf("❌ Invalid client event from profile %s: %v", profileID, err)
		return
	}

	switch envelope.Type {
	case models.EventCallAccepted, models.EventCallDeclined, models.EventCallCancelled:
		if envelope.Payload.TargetProfileID == "" || envelope.Payload.ConversationID == "" {
			log.Printf("❌ Client event %s from profile %s misses target or conversation", envelope.Type, profileID)
			return
		}
		shared, err := s.Members.SharesConversation(context.Background(), envelope.Payload.ConversationID, profileID, envelope.Payload.TargetProfileID)
		if err != nil {
			log.Printf("❌ Membership check failed for %s event from profile %s: %v", envelope.Type, profileID, err)
			return
		}
		if !shared {
			log.Printf("⚠️ Dropping %s event from profile %s: not a participant of conversation %s with %s", envelope.Type, profileID, envelope.Payload.ConversationID, envelope.Payload.TargetProfileID)
			return
		}
		s.Broadcaster.Broadcast(envelope.Payload.TargetProfileID, models.RealtimeEvent{
			Type: envelope.Type,
			Payload: models.CallStatusPayload{
				ConversationID: envelope.Payload.ConversationID,
				RoomName:       envelope.Payload.RoomName,
			},
		})
	default:
		log.Printf("⚠️ Ignoring unknown client event type %q from profile %s", envelope.Type, profileID)
	}
}

// wsConnection adapts a gorilla websocket to the Connection interface.
// Writes are serialized; gorilla conns support one concurrent writer.
type wsConnection struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	mu      sync.RWMutex
	closed  bool
}

func (c *wsConnection) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *wsConnection) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConnection) markClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
