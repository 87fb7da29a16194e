package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/donation-ledger/pkg/queue/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSQSPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	payload := map[string]string{"donationId": "d1"}

	t.Run("Success", func(t *testing.T) {
		client := mocks.NewSendMessageAPI(t)
		client.On("SendMessage", ctx, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			attr, ok := in.MessageAttributes[MessageTypeAttribute]
			return aws.ToString(in.QueueUrl) == "https://sqs.test/receipts" &&
				aws.ToString(in.MessageBody) == `{"donationId":"d1"}` &&
				ok && aws.ToString(attr.StringValue) == "receipt"
		})).Return(&sqs.SendMessageOutput{}, nil).Once()

		err := NewSQSPublisher(client, "https://sqs.test/receipts").Publish(ctx, "receipt", payload)

		assert.NoError(t, err)
	})

	t.Run("Send Fails", func(t *testing.T) {
		client := mocks.NewSendMessageAPI(t)
		client.On("SendMessage", ctx, mock.Anything).Return(nil, errors.New("throttled")).Once()

		err := NewSQSPublisher(client, "q").Publish(ctx, "receipt", payload)

		assert.ErrorContains(t, err, "failed to send receipt message to SQS")
	})

	t.Run("Unmarshalable Payload", func(t *testing.T) {
		client := mocks.NewSendMessageAPI(t)

		err := NewSQSPublisher(client, "q").Publish(ctx, "receipt", make(chan int))

		assert.ErrorContains(t, err, "failed to marshal")
	})
}
