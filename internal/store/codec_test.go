package store

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachit/chat-backend/internal/models"
)

func turnAttr(user, assistant string) types.AttributeValue {
	return &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
		"user":      &types.AttributeValueMemberS{Value: user},
		"assistant": &types.AttributeValueMemberS{Value: assistant},
	}}
}

func TestDecodeHistory(t *testing.T) {
	av := &types.AttributeValueMemberL{Value: []types.AttributeValue{
		turnAttr("hi", "hello"),
		turnAttr("how are you", "fine"),
	}}

	turns := decodeHistory(av)
	assert.Equal(t, []models.Turn{
		{User: "hi", Assistant: "hello"},
		{User: "how are you", Assistant: "fine"},
	}, turns)
}

func TestDecodeHistory_MissingFieldsDefaultToEmpty(t *testing.T) {
	av := &types.AttributeValueMemberL{Value: []types.AttributeValue{
		&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"user": &types.AttributeValueMemberS{Value: "only user"},
		}},
		&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
	}}

	turns := decodeHistory(av)
	require.Len(t, turns, 2)
	assert.Equal(t, models.Turn{User: "only user", Assistant: ""}, turns[0])
	assert.Equal(t, models.Turn{User: "", Assistant: ""}, turns[1])
}

func TestDecodeHistory_SkipsNonMapEntries(t *testing.T) {
	av := &types.AttributeValueMemberL{Value: []types.AttributeValue{
		&types.AttributeValueMemberS{Value: "stray string"},
		turnAttr("hi", "hello"),
	}}

	turns := decodeHistory(av)
	assert.Equal(t, []models.Turn{{User: "hi", Assistant: "hello"}}, turns)
}

func TestDecodeHistory_NotAList(t *testing.T) {
	assert.Empty(t, decodeHistory(nil))
	assert.Empty(t, decodeHistory(&types.AttributeValueMemberS{Value: "x"}))
	assert.NotNil(t, decodeHistory(nil), "absent history decodes to an empty, non-nil slice")
}

func TestDecodeConversation(t *testing.T) {
	item := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: "c1"},
		"history": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			turnAttr("hi", "hello"),
		}},
	}

	conv := decodeConversation(item)
	assert.Equal(t, "c1", conv.ConversationID)
	assert.Equal(t, []models.Turn{{User: "hi", Assistant: "hello"}}, conv.History)
}

func TestEncodeTurn_RoundTrip(t *testing.T) {
	av := encodeTurn(models.Turn{User: "hi", Assistant: "hello"})

	turns := decodeHistory(&types.AttributeValueMemberL{Value: []types.AttributeValue{av}})
	assert.Equal(t, []models.Turn{{User: "hi", Assistant: "hello"}}, turns)
}
