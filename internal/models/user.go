package models

// User is an item in the user-data DynamoDB table.
//
// ConversationIDs is append-only; insertion order is creation order.
// Token is the single active session token, there is no revocation list.
type User struct {
	UserID          string   `json:"userId" dynamodbav:"userId"`
	Name            string   `json:"name" dynamodbav:"name"`
	Email           string   `json:"email" dynamodbav:"email"`
	Password        string   `json:"-" dynamodbav:"password"` // salt:hash hex, never serialized
	ConversationIDs []string `json:"conversationIds" dynamodbav:"conversationIds"`
	Token           string   `json:"token" dynamodbav:"token"`
	TokenExpiresAt  int64    `json:"tokenExpiresAt" dynamodbav:"tokenExpiresAt"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
