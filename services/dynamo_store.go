package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"unveil_server/apperrors"
	"unveil_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/samber/lo"
)

// DynamoStore implements MatchStore, ChannelStore and ProfileStore on
// the DynamoDB tables described in models/constants.go.
type DynamoStore struct {
	Dynamo *DynamoService
}

func NewDynamoStore(dynamo *DynamoService) *DynamoStore {
	return &DynamoStore{Dynamo: dynamo}
}

func (s *DynamoStore) PutMatch(ctx context.Context, m *models.Match) error {
	return s.Dynamo.PutItem(ctx, models.MatchesTable, m)
}

func (s *DynamoStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.ErrMatchNotFound
	}

	var m models.Match
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match %s: %w", matchID, err)
	}
	return &m, nil
}

func (s *DynamoStore) FindActiveByPair(ctx context.Context, pairKey string) (*models.Match, error) {
	keyCondition := "pairKey = :pairKey"
	expressionValues := map[string]types.AttributeValue{
		":pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.PairKeyIndex, keyCondition, expressionValues, nil, 25)
	if err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches for pair %s: %w", pairKey, err)
	}

	active := lo.Filter(matches, func(m models.Match, _ int) bool {
		return !m.IsArchived
	})
	if len(active) == 0 {
		return nil, nil
	}
	return &active[0], nil
}

func (s *DynamoStore) PutChannel(ctx context.Context, ch *models.Channel) error {
	return s.Dynamo.PutItem(ctx, models.ChannelsTable, ch)
}

func (s *DynamoStore) GetChannel(ctx context.Context, matchID string) (*models.Channel, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ChannelsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var ch models.Channel
	if err := attributevalue.UnmarshalMap(item, &ch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel %s: %w", matchID, err)
	}
	return &ch, nil
}

func (s *DynamoStore) SetReadCursor(ctx context.Context, matchID string, participantA bool, upto int64) error {
	attr := "readB"
	if participantA {
		attr = "readA"
	}

	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	updateExpression := "SET #cursor = :upto"
	expressionValues := map[string]types.AttributeValue{
		":upto": &types.AttributeValueMemberN{Value: strconv.FormatInt(upto, 10)},
	}
	expressionNames := map[string]string{"#cursor": attr}

	_, err := s.Dynamo.UpdateItem(ctx, models.ChannelsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}

func (s *DynamoStore) CommitAppend(ctx context.Context, msg *models.Message, ch *models.Channel, m *models.Match) error {
	return s.Dynamo.TransactPuts(ctx, []TransactPut{
		{Table: models.MessagesTable, Item: msg},
		{Table: models.ChannelsTable, Item: ch},
		{Table: models.MatchesTable, Item: m},
	})
}

func (s *DynamoStore) ListMessagesSince(ctx context.Context, matchID string, after int64, limit int32) ([]models.Message, error) {
	keyCondition := "matchId = :matchId AND #ord > :after"
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
		":after":   &types.AttributeValueMemberN{Value: strconv.FormatInt(after, 10)},
	}
	expressionNames := map[string]string{"#ord": "ordinal"}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, limit, true)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages for match %s: %w", matchID, err)
	}
	return messages, nil
}

func (s *DynamoStore) PutProfile(ctx context.Context, p *models.UserProfile) error {
	return s.Dynamo.PutItem(ctx, models.UserProfilesTable, p)
}

func (s *DynamoStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	var p models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &p, nil
}

func (s *DynamoStore) DeleteProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return s.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}

// nowRFC3339 is the timestamp format used across all records.
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
