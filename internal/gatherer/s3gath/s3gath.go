package s3gath

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/programme-lv/p2d/api"
)

type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Gatherer uploads every produced archive to bucket under prefix.
type S3Gatherer struct {
	ctx    context.Context
	client s3Client
	bucket string
	prefix string
}

// New keeps the values of ctx but not its cancellation: archives of problems
// that finish after an interrupt are still uploaded.
func New(ctx context.Context, client *s3.Client, bucket, prefix string) *S3Gatherer {
	return newGatherer(ctx, client, bucket, prefix)
}

func newGatherer(ctx context.Context, client s3Client, bucket, prefix string) *S3Gatherer {
	return &S3Gatherer{ctx: context.WithoutCancel(ctx), client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key of an archive.
func (g *S3Gatherer) Key(archivePath string) string {
	return path.Join(g.prefix, filepath.Base(archivePath))
}

func (g *S3Gatherer) upload(archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	_, err = g.client.PutObject(g.ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(g.Key(archivePath)),
		Body:        f,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3 (bucket: %s, key: %s): %w",
			archivePath, g.bucket, g.Key(archivePath), err)
	}
	return nil
}

func (g *S3Gatherer) StartRun(problemsetDir string) {}

func (g *S3Gatherer) StartProblem(problem string) {}

func (g *S3Gatherer) StartAspect(problem string, aspect string) {}

func (g *S3Gatherer) Diagnostic(problem string, aspect string, severity api.Severity, msg string) {}

func (g *S3Gatherer) StartArchive(problem string) {}

func (g *S3Gatherer) FinishProblem(o api.Outcome) {
	if o.Archive == "" {
		return
	}
	if err := g.upload(o.Archive); err != nil {
		slog.Error("failed to upload archive", "problem", o.Problem, "error", err)
		return
	}
	slog.Info("uploaded archive", "problem", o.Problem, "bucket", g.bucket, "key", g.Key(o.Archive))
}

func (g *S3Gatherer) FinishRun(summary api.Summary) {}
