package sqsgath

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// NewSqsResultQueueGatherer sends per-problem and per-run results to the
// queue at queueUrl. Progress events are not sent. Cancelling ctx does not
// stop the sends, so an interrupted run still reports its finish.
func NewSqsResultQueueGatherer(ctx context.Context, client *sqs.Client, runUuid string, queueUrl string) *sqsResQueueGatherer {
	return newGatherer(ctx, client, runUuid, queueUrl)
}

func newGatherer(ctx context.Context, client sqsClient, runUuid string, queueUrl string) *sqsResQueueGatherer {
	return &sqsResQueueGatherer{
		ctx:       context.WithoutCancel(ctx),
		sqsClient: client,
		queueUrl:  queueUrl,
		runUuid:   runUuid,
	}
}
