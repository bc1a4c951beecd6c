package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/rachit/chat-backend/internal/models"
)

// decodeHistory unwraps a conversation's history attribute from DynamoDB's
// tagged encoding (a list of maps of strings) into flat turns. Entries that
// are not maps are skipped; a missing user or assistant sub-field defaults
// to the empty string rather than failing the record.
func decodeHistory(av types.AttributeValue) []models.Turn {
	turns := []models.Turn{}

	list, ok := av.(*types.AttributeValueMemberL)
	if !ok {
		return turns
	}
	for _, entry := range list.Value {
		m, ok := entry.(*types.AttributeValueMemberM)
		if !ok {
			continue
		}
		turns = append(turns, models.Turn{
			User:      stringAttr(m.Value["user"]),
			Assistant: stringAttr(m.Value["assistant"]),
		})
	}
	return turns
}

// decodeConversation unwraps one conversation item.
func decodeConversation(item map[string]types.AttributeValue) models.Conversation {
	return models.Conversation{
		ConversationID: stringAttr(item["conversationId"]),
		History:        decodeHistory(item["history"]),
	}
}

// encodeTurn wraps a turn back into the store's map encoding.
func encodeTurn(t models.Turn) types.AttributeValue {
	return &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
		"user":      &types.AttributeValueMemberS{Value: t.User},
		"assistant": &types.AttributeValueMemberS{Value: t.Assistant},
	}}
}

func stringAttr(av types.AttributeValue) string {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}
