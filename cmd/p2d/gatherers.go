package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/p2d/internal/convert"
	"github.com/programme-lv/p2d/internal/gatherer/multigath"
	"github.com/programme-lv/p2d/internal/gatherer/natsgath"
	"github.com/programme-lv/p2d/internal/gatherer/s3gath"
	"github.com/programme-lv/p2d/internal/gatherer/sqsgath"
	"github.com/programme-lv/p2d/internal/gatherer/termgath"
	"github.com/urfave/cli/v3"
)

// buildGatherer wires the terminal gatherer plus the optional remote ones
// selected by flags. The returned cleanup flushes remote connections.
func buildGatherer(ctx context.Context, cmd *cli.Command, runUuid string) (convert.Gatherer, func(), error) {
	gatherers := multigath.New(termgath.New(os.Stdout))
	cleanup := func() {}

	bucket, queueUrl := cmd.String("s3-bucket"), cmd.String("sqs-url")
	if bucket != "" || queueUrl != "" {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cmd.String("aws-region")))
		if err != nil {
			return nil, cleanup, fmt.Errorf("unable to load SDK config: %w", err)
		}
		if bucket != "" {
			gatherers = append(gatherers, s3gath.New(ctx, s3.NewFromConfig(cfg), bucket, cmd.String("s3-prefix")))
		}
		if queueUrl != "" {
			gatherers = append(gatherers, sqsgath.NewSqsResultQueueGatherer(ctx, sqs.NewFromConfig(cfg), runUuid, queueUrl))
		}
	}

	if url := cmd.String("nats-url"); url != "" {
		nc, err := nats.Connect(url, nats.Name("p2d"))
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
		}
		cleanup = func() {
			if err := nc.Drain(); err != nil {
				slog.Warn("failed to drain NATS connection", "error", err)
			}
		}
		gatherers = append(gatherers, natsgath.New(nc, runUuid, cmd.String("nats-subject")))
	}

	return gatherers, cleanup, nil
}
