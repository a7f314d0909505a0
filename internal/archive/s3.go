package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	v1 "github.com/seology-ai/eventgate/internal/api/v1"
)

const contentTypeNDJSON = "application/x-ndjson"

// Archiver stores ledger records before they are swept.
type Archiver interface {
	Archive(ctx context.Context, records []*v1.EventRecord) error
}

// putObjectAPI is the subset of *s3.Client used here.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes expired records as JSON Lines to an S3-compatible bucket.
type S3Archiver struct {
	client putObjectAPI
	bucket string
	prefix string
	nowFn  func() time.Time
}

// NewS3Archiver creates an S3 archiver. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Archiver(ctx context.Context, bucket, prefix, region, endpoint string) (*S3Archiver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return newS3Archiver(s3.NewFromConfig(cfg, s3opts...), bucket, prefix), nil
}

func newS3Archiver(client putObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Archive uploads one object per call. An empty batch is a no-op.
func (a *S3Archiver) Archive(ctx context.Context, records []*v1.EventRecord) error {
	if len(records) == 0 {
		return nil
	}

	data, err := EncodeJSONL(records)
	if err != nil {
		return err
	}

	key := ObjectKey(a.prefix, a.nowFn())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeNDJSON),
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s: %w", key, err)
	}

	slog.Info("[Archive] Uploaded expired ledger records",
		"bucket", a.bucket,
		"key", key,
		"records", len(records),
		"bytes", len(data))
	return nil
}

// EncodeJSONL renders one JSON object per line.
func EncodeJSONL(records []*v1.EventRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("encode record %q: %w", rec.EventKey, err)
		}
	}
	return buf.Bytes(), nil
}

// ObjectKey returns <prefix>/YYYY/MM/DD/<unix-nano>.jsonl.
func ObjectKey(prefix string, at time.Time) string {
	at = at.UTC()
	return path.Join(
		prefix,
		at.Format("2006"),
		at.Format("01"),
		at.Format("02"),
		strconv.FormatInt(at.UnixNano(), 10)+".jsonl",
	)
}
