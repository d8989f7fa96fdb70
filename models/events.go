package models

// Realtime event types delivered over the persistent channel.
const (
	EventNewMessage      = "new_message"
	EventNewLike         = "new_like"
	EventNewMatch        = "new_match"
	EventAppNotification = "app_notification"
	EventIncomingCall    = "incoming_call"
	EventCallAccepted    = "call_accepted"
	EventCallDeclined    = "call_declined"
	EventCallCancelled   = "call_cancelled"
)

// RealtimeEvent is the serialized envelope pushed to every open connection
// of the recipient.
type RealtimeEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// CallerInfo identifies the initiating side of a call.
type CallerInfo struct {
	ID         string `json:"id"`
	PublicName string `json:"publicName"`
}

// IncomingCallPayload is the body of an incoming_call event.
type IncomingCallPayload struct {
	ConversationID string     `json:"conversationId"`
	RoomName       string     `json:"roomName"`
	Caller         CallerInfo `json:"caller"`
}

// CallStatusPayload is the body of call_accepted/call_declined/call_cancelled.
type CallStatusPayload struct {
	ConversationID string `json:"conversationId"`
	RoomName       string `json:"roomName,omitempty"`
}

// NewMatchPayload is the body of a new_match event.
type NewMatchPayload struct {
	Profile ProfileSummary `json:"profile"`
}

// NewMessagePayload is the body of a new_message event.
type NewMessagePayload struct {
	ConversationID  string `json:"conversationId"`
	MessageID       string `json:"messageId"`
	SenderProfileID string `json:"senderProfileId"`
	Content         string `json:"content"`
	CreatedAt       string `json:"createdAt"`
}
