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

// referenceClaim is a sentinel item in the donations table that makes a
// provider reference unique across donations. It carries none of the indexed
// attributes, so it never shows up in index queries.
type referenceClaim struct {
	Id         string    `dynamodbav:"id"`
	DonationId string    `dynamodbav:"donation_id"`
	ClaimedAt  time.Time `dynamodbav:"claimed_at"`
}

func referenceClaimID(ref string) string {
	return "ref#" + ref
}

// SettleDonation performs the atomic settlement of a donation.
// The status flip, the provider reference claim and the campaign increment
// are one TransactWriteItems call: either all apply or none do.
func (s *Store) SettleDonation(ctx context.Context, st storage.Settlement) (bool, error) {
	nowAV, err := attributevalue.Marshal(st.SettledAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to marshal timestamp for settlement: %w", err)
	}
	amountAV, err := attributevalue.Marshal(st.Amount)
	if err != nil {
		return false, fmt.Errorf("failed to marshal amount for settlement: %w", err)
	}
	claimAV, err := attributevalue.MarshalMap(referenceClaim{
		Id:         referenceClaimID(st.ProviderReference),
		DonationId: st.DonationID,
		ClaimedAt:  st.SettledAt.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal reference claim: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Flip the donation from initiated to settled.
				Update: &types.Update{
					TableName:           aws.String(s.DonationsTableName),
					Key:                 idKey(st.DonationID),
					UpdateExpression:    aws.String("SET #status = :settled, provider_reference = :ref, settled_at = :now, updated_at = :now"),
					ConditionExpression: aws.String("#status = :initiated AND campaign_id = :campaign_id"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":settled":     &types.AttributeValueMemberS{Value: string(models.SettlementSettled)},
						":initiated":   &types.AttributeValueMemberS{Value: string(models.SettlementInitiated)},
						":campaign_id": &types.AttributeValueMemberS{Value: st.CampaignID},
						":ref":         &types.AttributeValueMemberS{Value: st.ProviderReference},
						":now":         nowAV,
					},
				},
			},
			{
				// Operation 2: Claim the provider reference.
				Put: &types.Put{
					TableName:           aws.String(s.DonationsTableName),
					Item:                claimAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 3: Increment the campaign totals.
				Update: &types.Update{
					TableName:           aws.String(s.CampaignsTableName),
					Key:                 idKey(st.CampaignID),
					UpdateExpression:    aws.String("SET raised_amount = raised_amount + :amount, donor_count = donor_count + :inc, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
						":inc":    numberAV(1),
						":now":    nowAV,
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		switch failedCondition(err) {
		case 0:
			return false, nil
		case 1:
			return false, fmt.Errorf("reference %s: %w", st.ProviderReference, storage.ErrReferenceClaimed)
		case 2:
			return false, fmt.Errorf("campaign with ID %s: %w", st.CampaignID, storage.ErrNotFound)
		}
		return false, fmt.Errorf("failed to execute settlement transaction: %w", err)
	}
	return true, nil
}

// RefundDonation performs the atomic reversal of a settled donation.
func (s *Store) RefundDonation(ctx context.Context, r storage.Refund) (bool, error) {
	nowAV, err := attributevalue.Marshal(r.RefundedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to marshal timestamp for refund: %w", err)
	}
	amountAV, err := attributevalue.Marshal(r.Amount)
	if err != nil {
		return false, fmt.Errorf("failed to marshal amount for refund: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Flip the donation from settled to refunded.
				Update: &types.Update{
					TableName:           aws.String(s.DonationsTableName),
					Key:                 idKey(r.DonationID),
					UpdateExpression:    aws.String("SET #status = :refunded, updated_at = :now"),
					ConditionExpression: aws.String("#status = :settled AND campaign_id = :campaign_id"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":refunded":    &types.AttributeValueMemberS{Value: string(models.SettlementRefunded)},
						":settled":     &types.AttributeValueMemberS{Value: string(models.SettlementSettled)},
						":campaign_id": &types.AttributeValueMemberS{Value: r.CampaignID},
						":now":         nowAV,
					},
				},
			},
			{
				// Operation 2: Decrement the raised amount. Donor count stays.
				Update: &types.Update{
					TableName:           aws.String(s.CampaignsTableName),
					Key:                 idKey(r.CampaignID),
					UpdateExpression:    aws.String("SET raised_amount = raised_amount - :amount, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
						":inc":    numberAV(1),
						":now":    nowAV,
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		switch failedCondition(err) {
		case 0:
			return false, nil
		case 1:
			return false, fmt.Errorf("campaign with ID %s: %w", r.CampaignID, storage.ErrNotFound)
		}
		return false, fmt.Errorf("failed to execute refund transaction: %w", err)
	}
	return true, nil
}

// ReplaceTotals overwrites the derived totals if the campaign version still matches.
func (s *Store) ReplaceTotals(ctx context.Context, campaignID string, totals models.Totals, expectedVersion int64) error {
	amountAV, err := attributevalue.Marshal(totals.RaisedAmount)
	if err != nil {
		return fmt.Errorf("failed to marshal raised amount: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.CampaignsTableName),
		Key:                 idKey(campaignID),
		UpdateExpression:    aws.String("SET raised_amount = :amount, donor_count = :donors, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(id) AND version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount":  amountAV,
			":donors":  numberAV(totals.DonorCount),
			":version": numberAV(expectedVersion),
			":inc":     numberAV(1),
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		return campaignConditionError(campaignID, err, "failed to replace campaign totals")
	}
	return nil
}

// failedCondition returns the index of the first transaction item whose
// condition check failed, or -1 when the error is anything else.
func failedCondition(err error) int {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return -1
	}
	for i, reason := range tce.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
			return i
		}
	}
	return -1
}
