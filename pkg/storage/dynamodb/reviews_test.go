package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testReviewItem() *models.ReviewItem {
	ev := models.ReconciliationEvent{ProviderReference: "ch_1", Outcome: models.OutcomeSuccess, Amount: 5000, CorrelationToken: "tok-x"}
	return models.NewReviewItem(models.ReviewOrphanedEvent, ev, "", "no donation for correlation token", time.Now())
}

func TestRecordReview(t *testing.T) {
	t.Run("Recorded", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			id := in.Item["id"].(*types.AttributeValueMemberS)
			return *in.TableName == "reviews" && id.Value == "orphaned_event#ch_1"
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		recorded, err := newTestStore(mockClient).RecordReview(context.Background(), testReviewItem())

		assert.NoError(t, err)
		assert.True(t, recorded)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		recorded, err := newTestStore(mockClient).RecordReview(context.Background(), testReviewItem())

		assert.NoError(t, err)
		assert.False(t, recorded)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := newTestStore(mockClient).RecordReview(context.Background(), testReviewItem())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record review item")
		mockClient.AssertExpectations(t)
	})
}

func TestListReviews(t *testing.T) {
	item, err := attributevalue.MarshalMap(testReviewItem())
	require.NoError(t, err)

	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == reviewsGSI && *in.Limit == 25
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil).Once()

	items, err := newTestStore(mockClient).ListReviews(context.Background(), 25)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ReviewOrphanedEvent, items[0].Kind)
	mockClient.AssertExpectations(t)
}
