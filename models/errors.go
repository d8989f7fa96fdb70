package models

import "fmt"

// Machine-readable codes for domain-rule rejections. Infrastructure failures
// are wrapped with fmt.Errorf and never carry a code.
const (
	CodeInvalidOperation        = "INVALID_OPERATION"
	CodeNotFound                = "NOT_FOUND"
	CodeConversationNotAccepted = "CONVERSATION_NOT_ACCEPTED"
	CodeNotParticipant          = "NOT_PARTICIPANT"
	CodePartnerNotFound         = "PARTNER_NOT_FOUND"
	CodeNotCallable             = "NOT_CALLABLE"
)

// AppError is a domain-rule rejection the route layer maps to an HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError builds a coded rejection.
func NewAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}
