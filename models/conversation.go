package models

// Conversation lifecycle states.
const (
	ConversationInitiated = "INITIATED"
	ConversationAccepted  = "ACCEPTED"
	ConversationDeclined  = "DECLINED"
	ConversationBlocked   = "BLOCKED"
)

// Conversation links exactly two participants. CallRoomID holds the room of
// the single currently-active call, if any; a new call overwrites it.
type Conversation struct {
	ConversationID     string `dynamodbav:"conversationId" json:"conversationId"`
	Status             string `dynamodbav:"status" json:"status"`
	InitiatorProfileID string `dynamodbav:"initiatorProfileId" json:"initiatorProfileId"`
	CallRoomID         string `dynamodbav:"callRoomId,omitempty" json:"callRoomId,omitempty"`
	CreatedAt          string `dynamodbav:"createdAt" json:"createdAt"`
}

// Participant is one profile's membership in a conversation. IsCallable is
// per-conversation and independent of the profile-level callable flag; both
// must be true for the participant to be reachable by a call.
type Participant struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	ProfileID      string `dynamodbav:"profileId" json:"profileId"`
	IsCallable     bool   `dynamodbav:"isCallable" json:"isCallable"`
}

// CallSession is what a successful call initiation hands back to the caller.
type CallSession struct {
	RoomName         string `json:"roomName"`
	CalleeProfileID  string `json:"calleeProfileId"`
	CallerPublicName string `json:"callerPublicName"`
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"

// ParticipantsTable is the DynamoDB table name for conversation participants
const ParticipantsTable = "Participants"

// ParticipantProfileIndex is the GSI for finding a profile's conversations
const ParticipantProfileIndex = "profileId-index" // PK: profileId
