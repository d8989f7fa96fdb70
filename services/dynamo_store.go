package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"amoria_server/models"
	"amoria_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore is the DynamoDB-backed DataStore.
type DynamoStore struct {
	Dynamo *DynamoService
}

func edgeKey(senderProfileID, targetProfileID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"senderProfileId": &types.AttributeValueMemberS{Value: senderProfileID},
		"targetProfileId": &types.AttributeValueMemberS{Value: targetProfileID},
	}
}

// GetProfile retrieves a user profile by profile ID. Returns nil when absent.
func (s *DynamoStore) GetProfile(ctx context.Context, profileID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetProfileSummaries hydrates the summary subset for a set of profile IDs.
// Missing profiles are skipped, not errors.
func (s *DynamoStore) GetProfileSummaries(ctx context.Context, profileIDs []string) (map[string]models.ProfileSummary, error) {
	summaries := make(map[string]models.ProfileSummary, len(profileIDs))
	for _, id := range profileIDs {
		key := map[string]types.AttributeValue{
			"profileId": &types.AttributeValueMemberS{Value: id},
		}
		item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key, false)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		summaries[id] = models.ProfileSummary{
			ProfileID:  utils.ExtractString(item, "profileId"),
			PublicName: utils.ExtractString(item, "publicName"),
			PhotoKey:   utils.ExtractString(item, "photoKey"),
		}
	}
	return summaries, nil
}

func (s *DynamoStore) UpdateProfileCallable(ctx context.Context, profileID string, isCallable bool) error {
	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}
	_, err := s.Dynamo.UpdateItem(ctx, models.UserProfilesTable, "SET isCallable = :callable", key,
		map[string]types.AttributeValue{
			":callable": &types.AttributeValueMemberBOOL{Value: isCallable},
		}, nil, "")
	return err
}

// PutLikeEdge creates the directed edge if it does not exist yet. An existing
// edge keeps its isNew flag and timestamp, so re-liking never resurrects a
// match the recipient already saw.
func (s *DynamoStore) PutLikeEdge(ctx context.Context, edge models.LikeEdge) error {
	_, err := s.Dynamo.PutItemIfAbsent(ctx, models.LikesTable, edge, "senderProfileId")
	return err
}

// GetLikeEdge reads one directed edge with a strongly-consistent read so a
// concurrently-committed reverse edge is never missed during match detection.
func (s *DynamoStore) GetLikeEdge(ctx context.Context, senderProfileID, targetProfileID string) (*models.LikeEdge, error) {
	item, err := s.Dynamo.GetItem(ctx, models.LikesTable, edgeKey(senderProfileID, targetProfileID), true)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var edge models.LikeEdge
	if err := attributevalue.UnmarshalMap(item, &edge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal like edge: %w", err)
	}
	return &edge, nil
}

func (s *DynamoStore) QueryLikesSent(ctx context.Context, senderProfileID string) ([]models.LikeEdge, error) {
	keyCondition := "senderProfileId = :sender"
	expressionValues := map[string]types.AttributeValue{
		":sender": &types.AttributeValueMemberS{Value: senderProfileID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.LikesTable, keyCondition, expressionValues, nil, 500)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent likes: %w", err)
	}

	var edges []models.LikeEdge
	if err := attributevalue.UnmarshalListOfMaps(items, &edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sent likes: %w", err)
	}
	return edges, nil
}

func (s *DynamoStore) QueryLikesReceived(ctx context.Context, targetProfileID string) ([]models.LikeEdge, error) {
	keyCondition := "targetProfileId = :target"
	expressionValues := map[string]types.AttributeValue{
		":target": &types.AttributeValueMemberS{Value: targetProfileID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.LikesTable, models.TargetProfileIndex, keyCondition, expressionValues, nil, 500)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch received likes: %w", err)
	}

	var edges []models.LikeEdge
	if err := attributevalue.UnmarshalListOfMaps(items, &edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal received likes: %w", err)
	}
	return edges, nil
}

// ClearLikeEdgeNew flips isNew to false on one directed edge. Guarded on the
// edge existing so an absent direction is a no-op instead of a phantom item.
func (s *DynamoStore) ClearLikeEdgeNew(ctx context.Context, senderProfileID, targetProfileID string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.LikesTable, "SET isNew = :false",
		edgeKey(senderProfileID, targetProfileID),
		map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
		}, nil, "attribute_exists(senderProfileId)")
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil
		}
		return err
	}
	return nil
}

// CreateMatchRecord inserts the pair's match record iff none exists yet.
func (s *DynamoStore) CreateMatchRecord(ctx context.Context, record models.MatchRecord) (bool, error) {
	return s.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, record, "pairKey")
}

// DeleteLikeAndMatch removes the directed edge and the match record for the
// pair in one transactional write.
func (s *DynamoStore) DeleteLikeAndMatch(ctx context.Context, senderProfileID, targetProfileID string) error {
	pairKey := models.PairKey(senderProfileID, targetProfileID)
	items := []types.TransactWriteItem{
		{Delete: &types.Delete{
			TableName: aws.String(models.LikesTable),
			Key:       edgeKey(senderProfileID, targetProfileID),
		}},
		{Delete: &types.Delete{
			TableName: aws.String(models.MatchesTable),
			Key: map[string]types.AttributeValue{
				"pairKey": &types.AttributeValueMemberS{Value: pairKey},
			},
		}},
	}
	return s.Dynamo.TransactWrite(ctx, items)
}

// PassProfile removes every like edge between the two profiles plus the match
// record and upserts the hidden edge, all in one transactional write.
func (s *DynamoStore) PassProfile(ctx context.Context, hidden models.HiddenEdge) error {
	hiddenItem, err := attributevalue.MarshalMap(hidden)
	if err != nil {
		return fmt.Errorf("failed to marshal hidden edge: %w", err)
	}

	pairKey := models.PairKey(hidden.SenderProfileID, hidden.TargetProfileID)
	items := []types.TransactWriteItem{
		{Delete: &types.Delete{
			TableName: aws.String(models.LikesTable),
			Key:       edgeKey(hidden.SenderProfileID, hidden.TargetProfileID),
		}},
		{Delete: &types.Delete{
			TableName: aws.String(models.LikesTable),
			Key:       edgeKey(hidden.TargetProfileID, hidden.SenderProfileID),
		}},
		{Delete: &types.Delete{
			TableName: aws.String(models.MatchesTable),
			Key: map[string]types.AttributeValue{
				"pairKey": &types.AttributeValueMemberS{Value: pairKey},
			},
		}},
		{Put: &types.Put{
			TableName: aws.String(models.HiddenProfilesTable),
			Item:      hiddenItem,
		}},
	}
	return s.Dynamo.TransactWrite(ctx, items)
}

func (s *DynamoStore) DeleteHiddenEdge(ctx context.Context, senderProfileID, targetProfileID string) error {
	return s.Dynamo.DeleteItem(ctx, models.HiddenProfilesTable, edgeKey(senderProfileID, targetProfileID))
}

func (s *DynamoStore) QueryHiddenEdges(ctx context.Context, senderProfileID string) ([]models.HiddenEdge, error) {
	keyCondition := "senderProfileId = :sender"
	expressionValues := map[string]types.AttributeValue{
		":sender": &types.AttributeValueMemberS{Value: senderProfileID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.HiddenProfilesTable, keyCondition, expressionValues, nil, 500)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hidden edges: %w", err)
	}

	var edges []models.HiddenEdge
	if err := attributevalue.UnmarshalListOfMaps(items, &edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hidden edges: %w", err)
	}
	return edges, nil
}

// GetConversation reads a conversation and its participants. The conversation
// read is strongly consistent so call signaling validates current state.
func (s *DynamoStore) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, []models.Participant, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ConversationsTable, key, true)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, nil
	}

	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}

	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	items, err := s.Dynamo.QueryItems(ctx, models.ParticipantsTable, keyCondition, expressionValues, nil, 10)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch participants: %w", err)
	}

	var participants []models.Participant
	if err := attributevalue.UnmarshalListOfMaps(items, &participants); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal participants: %w", err)
	}

	return &conversation, participants, nil
}

// PutConversation writes the conversation and both participants in one
// transactional write so a half-created conversation is never readable.
func (s *DynamoStore) PutConversation(ctx context.Context, conversation models.Conversation, participants []models.Participant) error {
	conversationItem, err := attributevalue.MarshalMap(conversation)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName: aws.String(models.ConversationsTable),
			Item:      conversationItem,
		}},
	}
	for _, participant := range participants {
		participantItem, err := attributevalue.MarshalMap(participant)
		if err != nil {
			return fmt.Errorf("failed to marshal participant: %w", err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String(models.ParticipantsTable),
			Item:      participantItem,
		}})
	}
	return s.Dynamo.TransactWrite(ctx, items)
}

func (s *DynamoStore) SetConversationStatus(ctx context.Context, conversationID, status string) error {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	_, err := s.Dynamo.UpdateItem(ctx, models.ConversationsTable, "SET #status = :status", key,
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		map[string]string{"#status": "status"}, "")
	return err
}

// FindConversationBetween locates the conversation whose participant set is
// exactly the two given profiles, if one exists.
func (s *DynamoStore) FindConversationBetween(ctx context.Context, profileA, profileB string) (*models.Conversation, error) {
	keyCondition := "profileId = :profileId"
	expressionValues := map[string]types.AttributeValue{
		":profileId": &types.AttributeValueMemberS{Value: profileA},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ParticipantsTable, models.ParticipantProfileIndex, keyCondition, expressionValues, nil, 500)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations for profile: %w", err)
	}

	var memberships []models.Participant
	if err := attributevalue.UnmarshalListOfMaps(items, &memberships); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
	}

	for _, membership := range memberships {
		partnerKey := map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: membership.ConversationID},
			"profileId":      &types.AttributeValueMemberS{Value: profileB},
		}
		partnerItem, err := s.Dynamo.GetItem(ctx, models.ParticipantsTable, partnerKey, false)
		if err != nil {
			return nil, err
		}
		if partnerItem == nil {
			continue
		}

		conversation, _, err := s.GetConversation(ctx, membership.ConversationID)
		if err != nil {
			return nil, err
		}
		if conversation != nil {
			return conversation, nil
		}
	}
	return nil, nil
}

// SetConversationCallRoom persists the room id in one transactional write:
// the room update is conditioned on the conversation still being ACCEPTED,
// and the transaction also condition-checks the callee's participant row and
// profile row for isCallable. A state flip between the validation reads and
// this write cancels the whole transaction, which reports as false.
func (s *DynamoStore) SetConversationCallRoom(ctx context.Context, conversationID, roomID, calleeProfileID string) (bool, error) {
	callable := map[string]types.AttributeValue{
		":true": &types.AttributeValueMemberBOOL{Value: true},
	}
	items := []types.TransactWriteItem{
		{Update: &types.Update{
			TableName: aws.String(models.ConversationsTable),
			Key: map[string]types.AttributeValue{
				"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			},
			UpdateExpression:    aws.String("SET callRoomId = :roomId"),
			ConditionExpression: aws.String("#status = :accepted"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":roomId":   &types.AttributeValueMemberS{Value: roomID},
				":accepted": &types.AttributeValueMemberS{Value: models.ConversationAccepted},
			},
		}},
		{ConditionCheck: &types.ConditionCheck{
			TableName: aws.String(models.ParticipantsTable),
			Key: map[string]types.AttributeValue{
				"conversationId": &types.AttributeValueMemberS{Value: conversationID},
				"profileId":      &types.AttributeValueMemberS{Value: calleeProfileID},
			},
			ConditionExpression:       aws.String("isCallable = :true"),
			ExpressionAttributeValues: callable,
		}},
		{ConditionCheck: &types.ConditionCheck{
			TableName: aws.String(models.UserProfilesTable),
			Key: map[string]types.AttributeValue{
				"profileId": &types.AttributeValueMemberS{Value: calleeProfileID},
			},
			ConditionExpression:       aws.String("isCallable = :true"),
			ExpressionAttributeValues: callable,
		}},
	}

	if err := s.Dynamo.TransactWrite(ctx, items); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DynamoStore) UpdateParticipantCallable(ctx context.Context, conversationID, profileID string, isCallable bool) error {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"profileId":      &types.AttributeValueMemberS{Value: profileID},
	}
	_, err := s.Dynamo.UpdateItem(ctx, models.ParticipantsTable, "SET isCallable = :callable", key,
		map[string]types.AttributeValue{
			":callable": &types.AttributeValueMemberBOOL{Value: isCallable},
		}, nil, "attribute_exists(conversationId)")
	return err
}

func (s *DynamoStore) InsertMessage(ctx context.Context, message models.Message) error {
	return s.Dynamo.PutItem(ctx, models.MessagesTable, message)
}

// QueryMessages returns messages for a conversation, newest first. The query
// itself runs descending on the createdAt sort key so Limit keeps the newest
// N rather than the oldest.
func (s *DynamoStore) QueryMessages(ctx context.Context, conversationID string, limit int32) ([]models.Message, error) {
	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := s.Dynamo.QueryItemsLatestFirst(ctx, models.MessagesTable, keyCondition, expressionValues, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

// MarkMessagesRead flips isUnread on every message the reader received. The
// rewrites go out as a batch write: each one is a full put of the message
// with the flag cleared.
func (s *DynamoStore) MarkMessagesRead(ctx context.Context, conversationID, readerProfileID string) error {
	messages, err := s.QueryMessages(ctx, conversationID, 500)
	if err != nil {
		return err
	}

	var writes []types.WriteRequest
	for _, message := range messages {
		if message.SenderProfileID == readerProfileID || !message.IsUnread {
			continue
		}
		message.IsUnread = false
		item, err := attributevalue.MarshalMap(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	if len(writes) == 0 {
		return nil
	}

	if err := s.Dynamo.BatchWriteItems(ctx, models.MessagesTable, writes); err != nil {
		log.Printf("❌ Failed to mark messages as read in conversation %s: %v", conversationID, err)
		return err
	}
	return nil
}
