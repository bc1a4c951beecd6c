package models

// Turn is one user message paired with the model's reply to it.
// Turns are immutable once appended; ordering is chronological.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Conversation is an item in the conversation_data DynamoDB table.
// It is a top-level entity keyed by its own id; no back-reference to
// the owning user is stored.
type Conversation struct {
	ConversationID string `json:"conversationId"`
	History        []Turn `json:"history"`
}

// ResolveRequest is the JSON body for POST /api/conversations.
type ResolveRequest struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
}

// HistoryRequest is the JSON body for POST /api/conversations/history.
type HistoryRequest struct {
	UserID string `json:"userId"`
}

// ChatRequest is the JSON body for POST /api/chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}
