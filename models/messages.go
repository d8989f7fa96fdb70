package models

// Message types. Regular chat messages are "text"; "missed_call" is the
// system message inserted when a call rings out.
const (
	MessageTypeText       = "text"
	MessageTypeMissedCall = "missed_call"
)

// MissedCallContent is the fixed body of a missed-call system message.
const MissedCallContent = "Missed call"

type Message struct {
	ConversationID  string `dynamodbav:"conversationId" json:"conversationId"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
	MessageID       string `dynamodbav:"messageId" json:"messageId"`
	SenderProfileID string `dynamodbav:"senderProfileId" json:"senderProfileId"`
	Type            string `dynamodbav:"type" json:"type"`
	Content         string `dynamodbav:"content" json:"content"`
	IsUnread        bool   `dynamodbav:"isUnread" json:"isUnread"`
}

// MessagesTable is the DynamoDB table name for conversation messages
const MessagesTable = "Messages"
