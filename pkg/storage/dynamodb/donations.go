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
	correlationIndex = "correlation_token-index"
	campaignIndex    = "campaign_id-created_at-index"
	staleIndex       = "status-created_at-index"
)

// CreateDonation stores a new donation record.
func (s *Store) CreateDonation(ctx context.Context, d *models.Donation) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("failed to marshal donation: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.DonationsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("donation %s: %w", d.Id, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create donation in DynamoDB: %w", err)
	}
	return nil
}

// GetDonation retrieves a donation from DynamoDB by its ID.
func (s *Store) GetDonation(ctx context.Context, donationID string) (*models.Donation, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.DonationsTableName),
		Key:            idKey(donationID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get donation from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("donation with ID %s: %w", donationID, storage.ErrNotFound)
	}

	var d models.Donation
	if err := attributevalue.UnmarshalMap(result.Item, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal donation: %w", err)
	}
	return &d, nil
}

// FindDonationByCorrelation looks a donation up by its provider session token.
// The index only projects keys, so the full item is read back by ID.
func (s *Store) FindDonationByCorrelation(ctx context.Context, token string) (*models.Donation, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.DonationsTableName),
		IndexName:              aws.String(correlationIndex),
		KeyConditionExpression: aws.String("correlation_token = :token"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query donation by correlation token: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("donation with correlation token %s: %w", token, storage.ErrNotFound)
	}

	var key struct {
		Id string `dynamodbav:"id"`
	}
	if err := attributevalue.UnmarshalMap(result.Items[0], &key); err != nil {
		return nil, fmt.Errorf("failed to unmarshal donation key: %w", err)
	}
	return s.GetDonation(ctx, key.Id)
}

// ListDonationsByCampaign retrieves every donation recorded against a campaign.
func (s *Store) ListDonationsByCampaign(ctx context.Context, campaignID string) ([]models.Donation, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.DonationsTableName),
		IndexName:              aws.String(campaignIndex),
		KeyConditionExpression: aws.String("campaign_id = :campaign_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":campaign_id": &types.AttributeValueMemberS{Value: campaignID},
		},
		ScanIndexForward: aws.Bool(true),
	}
	donations, err := s.queryDonations(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query donations by campaign: %w", err)
	}
	return donations, nil
}

// ListStaleDonations retrieves donations that are still initiated after cutoff.
func (s *Store) ListStaleDonations(ctx context.Context, cutoff time.Time) ([]models.Donation, error) {
	cutoffTimeStr, err := cutoff.UTC().MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.DonationsTableName),
		IndexName:              aws.String(staleIndex),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.SettlementInitiated)},
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoffTimeStr)},
		},
	}
	donations, err := s.queryDonations(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stale donations: %w", err)
	}
	return donations, nil
}

// FailDonation atomically moves a donation from initiated to failed.
func (s *Store) FailDonation(ctx context.Context, donationID, providerReference, reason string, at time.Time) (bool, error) {
	nowAV, err := attributevalue.Marshal(at.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to marshal timestamp for status update: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.DonationsTableName),
		Key:                 idKey(donationID),
		UpdateExpression:    aws.String("SET #status = :failed, provider_reference = :ref, failure_reason = :reason, updated_at = :now"),
		ConditionExpression: aws.String("#status = :initiated"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed":    &types.AttributeValueMemberS{Value: string(models.SettlementFailed)},
			":initiated": &types.AttributeValueMemberS{Value: string(models.SettlementInitiated)},
			":ref":       &types.AttributeValueMemberS{Value: providerReference},
			":reason":    &types.AttributeValueMemberS{Value: reason},
			":now":       nowAV,
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update donation status to failed: %w", err)
	}
	return true, nil
}

func (s *Store) queryDonations(ctx context.Context, input *dynamodb.QueryInput) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.queryAll(ctx, input, func(out *dynamodb.QueryOutput) error {
		var page []models.Donation
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return fmt.Errorf("failed to unmarshal donations: %w", err)
		}
		donations = append(donations, page...)
		return nil
	})
	return donations, err
}
