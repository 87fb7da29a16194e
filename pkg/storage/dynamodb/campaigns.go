package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/storage"
)

const (
	moderationIndex = "moderation_status-created_at-index"
	fundingIndex    = "funding_status-end_date-index"
)

// CreateCampaign stores a new campaign record.
func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.CampaignsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("campaign %s: %w", c.Id, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create campaign in DynamoDB: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign from DynamoDB by its ID.
func (s *Store) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.CampaignsTableName),
		Key:            idKey(campaignID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("campaign with ID %s: %w", campaignID, storage.ErrNotFound)
	}

	var c models.Campaign
	if err := attributevalue.UnmarshalMap(result.Item, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign: %w", err)
	}
	return &c, nil
}

// UpdateCampaignStatus writes the moderation and funding fields if the version still matches.
func (s *Store) UpdateCampaignStatus(ctx context.Context, c *models.Campaign, expectedVersion int64) error {
	nowAV, err := attributevalue.Marshal(c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp for status update: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.CampaignsTableName),
		Key:                 idKey(c.Id),
		UpdateExpression:    aws.String("SET moderation_status = :moderation, funding_status = :funding, moderation_reason = :reason, updated_at = :now, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(id) AND version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":moderation": &types.AttributeValueMemberS{Value: string(c.ModerationStatus)},
			":funding":    &types.AttributeValueMemberS{Value: string(c.FundingStatus)},
			":reason":     &types.AttributeValueMemberS{Value: c.ModerationReason},
			":now":        nowAV,
			":version":    numberAV(expectedVersion),
			":inc":        numberAV(1),
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		return campaignConditionError(c.Id, err, "failed to update campaign status")
	}
	c.Version = expectedVersion + 1
	return nil
}

// campaignConditionError tells a missing campaign apart from a lost version race.
func campaignConditionError(campaignID string, err error, msg string) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		if len(ccf.Item) == 0 {
			return fmt.Errorf("campaign with ID %s: %w", campaignID, storage.ErrNotFound)
		}
		return fmt.Errorf("campaign with ID %s: %w", campaignID, storage.ErrVersionConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// ListCampaignsByModeration queries the moderation index, oldest first.
func (s *Store) ListCampaignsByModeration(ctx context.Context, status models.ModerationStatus) ([]models.Campaign, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.CampaignsTableName),
		IndexName:              aws.String(moderationIndex),
		KeyConditionExpression: aws.String("moderation_status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
		ScanIndexForward: aws.Bool(true),
	}
	campaigns, err := s.queryCampaigns(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns by moderation status: %w", err)
	}
	return campaigns, nil
}

// ListCampaignsByFunding queries the funding index.
func (s *Store) ListCampaignsByFunding(ctx context.Context, status models.FundingStatus) ([]models.Campaign, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.CampaignsTableName),
		IndexName:              aws.String(fundingIndex),
		KeyConditionExpression: aws.String("funding_status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	}
	campaigns, err := s.queryCampaigns(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns by funding status: %w", err)
	}
	return campaigns, nil
}

// ListExpiredCampaigns retrieves live campaigns whose end date is before cutoff.
func (s *Store) ListExpiredCampaigns(ctx context.Context, cutoff time.Time) ([]models.Campaign, error) {
	cutoffAV, err := attributevalue.Marshal(cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.CampaignsTableName),
		IndexName:              aws.String(fundingIndex),
		KeyConditionExpression: aws.String("funding_status = :status AND end_date < :cutoff"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.FundingLive)},
			":cutoff": cutoffAV,
		},
	}
	campaigns, err := s.queryCampaigns(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for expired campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *Store) queryCampaigns(ctx context.Context, input *dynamodb.QueryInput) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := s.queryAll(ctx, input, func(out *dynamodb.QueryOutput) error {
		var page []models.Campaign
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return fmt.Errorf("failed to unmarshal campaigns: %w", err)
		}
		campaigns = append(campaigns, page...)
		return nil
	})
	return campaigns, err
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func numberAV(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", n)}
}
