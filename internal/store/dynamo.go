// Package store adapts the handlers' persistence contracts to DynamoDB.
// All shared state lives in two tables: user-data and conversation_data.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/rachit/chat-backend/internal/models"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// DynamoStore handles user and conversation persistence against DynamoDB.
type DynamoStore struct {
	client     DynamoAPI
	usersTable string
	convTable  string
}

func NewDynamoStore(client DynamoAPI, usersTable, conversationsTable string) *DynamoStore {
	return &DynamoStore{client: client, usersTable: usersTable, convTable: conversationsTable}
}

// CreateUser writes a new user item, conditioned on the userId not already
// existing. Losing that condition yields ErrDuplicateID.
func (s *DynamoStore) CreateUser(ctx context.Context, u *models.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.usersTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(userId)"),
	})
	if isConditionalCheckFailed(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// FindByEmail scans the users table for a matching email. There is no
// secondary index, so cost is linear in total user count; if duplicate
// emails exist the first scanned match wins.
func (s *DynamoStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.usersTable),
		FilterExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan users by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}
	var u models.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// FindByToken scans the users table for the user holding a session token.
func (s *DynamoStore) FindByToken(ctx context.Context, token string) (*models.User, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(s.usersTable),
		FilterExpression:         aws.String("#t = :t"),
		ExpressionAttributeNames: map[string]string{"#t": "token"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan users by token: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}
	var u models.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// GetUser loads a user item by id.
func (s *DynamoStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.usersTable),
		Key:       userKey(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if out.Item == nil {
		return nil, ErrUserNotFound
	}
	var u models.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// RefreshSession overwrites the user's session token and expiry.
func (s *DynamoStore) RefreshSession(ctx context.Context, userID, token string, expiresAt int64) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.usersTable),
		Key:                      userKey(userID),
		UpdateExpression:         aws.String("SET #t = :t, tokenExpiresAt = :e"),
		ExpressionAttributeNames: map[string]string{"#t": "token"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
			":e": &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)},
		},
	})
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// ClearSession drops the user's session token.
func (s *DynamoStore) ClearSession(ctx context.Context, userID string) error {
	return s.RefreshSession(ctx, userID, "", 0)
}

// AppendConversationID appends a conversation id to the user's list,
// conditioned on the user existing. A failed condition yields
// ErrUserNotFound.
func (s *DynamoStore) AppendConversationID(ctx context.Context, userID, conversationID string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.usersTable),
		Key:                 userKey(userID),
		UpdateExpression:    aws.String("SET conversationIds = list_append(if_not_exists(conversationIds, :empty), :new)"),
		ConditionExpression: aws.String("attribute_exists(userId)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":new": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: conversationID},
			}},
		},
	})
	if isConditionalCheckFailed(err) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("append conversation id: %w", err)
	}
	return nil
}

// CreateConversation writes a new conversation item with an empty history.
func (s *DynamoStore) CreateConversation(ctx context.Context, conversationID string) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.convTable),
		Item: map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			"history":        &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
	})
	if err != nil {
		return fmt.Errorf("put conversation: %w", err)
	}
	return nil
}

// GetTurns loads a conversation's turn sequence. An absent item is an
// empty sequence, not an error.
func (s *DynamoStore) GetTurns(ctx context.Context, conversationID string) ([]models.Turn, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.convTable),
		Key:       conversationKey(conversationID),
	})
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if out.Item == nil {
		return []models.Turn{}, nil
	}
	return decodeHistory(out.Item["history"]), nil
}

// BatchGetConversations fetches all listed conversations in one multi-key
// read. Ids the batch does not return (orphaned references) are silently
// omitted, and result ordering is whatever DynamoDB yields.
func (s *DynamoStore) BatchGetConversations(ctx context.Context, ids []string) ([]models.Conversation, error) {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, conversationKey(id))
	}
	out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			s.convTable: {Keys: keys},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("batch get conversations: %w", err)
	}
	conversations := make([]models.Conversation, 0, len(ids))
	for _, item := range out.Responses[s.convTable] {
		conversations = append(conversations, decodeConversation(item))
	}
	return conversations, nil
}

// AppendTurn appends one turn to a conversation's history. The
// if_not_exists initializer makes the first turn on an unseen id create
// the list instead of failing.
func (s *DynamoStore) AppendTurn(ctx context.Context, conversationID string, t models.Turn) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.convTable),
		Key:              conversationKey(conversationID),
		UpdateExpression: aws.String("SET history = list_append(if_not_exists(history, :empty), :turn)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":turn":  &types.AttributeValueMemberL{Value: []types.AttributeValue{encodeTurn(t)}},
		},
	})
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func conversationKey(conversationID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
