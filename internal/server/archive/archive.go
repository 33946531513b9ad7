// Package archive copies finalized receipts to an S3-compatible bucket as
// JSON objects. Writes happen on a background worker; failures are logged
// and counted but never reach the ledger.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

const drainTimeout = 5 * time.Second

type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Settings struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for s. A custom endpoint (MinIO and the like)
// switches to path-style addressing.
func NewS3Client(ctx context.Context, s Settings) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Key is the object key for r: receipts/YYYY/MM/DD/<txhash>.json, dated by
// finalization time in UTC.
func Key(r *ledger.Receipt) string {
	d := time.Unix(r.FinalizedAt, 0).UTC()
	return fmt.Sprintf("receipts/%04d/%02d/%02d/%s.json", d.Year(), d.Month(), d.Day(), r.TxHash.Hex())
}

type Archive struct {
	bucket   string
	client   ObjectPutter
	queue    chan *ledger.Receipt
	logger   logging.Logger
	onResult func(ok bool)
}

func New(bucket string, client ObjectPutter, buffer int, logger logging.Logger) *Archive {
	if buffer <= 0 {
		buffer = 1
	}
	return &Archive{
		bucket:   bucket,
		client:   client,
		queue:    make(chan *ledger.Receipt, buffer),
		logger:   logger.With("module", "archive"),
		onResult: func(bool) {},
	}
}

// OnResult registers a callback run after every write attempt.
func (a *Archive) OnResult(fn func(ok bool)) {
	a.onResult = fn
}

// Finalized implements txpool.Observer. It never blocks: when the buffer
// is full the receipt is skipped.
func (a *Archive) Finalized(ctx context.Context, r *ledger.Receipt) {
	select {
	case a.queue <- r:
	default:
		a.logger.Warn(ctx, "archive buffer full, receipt skipped", "tx", r.TxHash.Hex())
		a.onResult(false)
	}
}

// Run writes queued receipts until ctx ends, then flushes what is left
// within a short grace period.
func (a *Archive) Run(ctx context.Context) {
	for {
		select {
		case r := <-a.queue:
			a.write(ctx, r)
		case <-ctx.Done():
			a.drain()
			return
		}
	}
}

func (a *Archive) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case r := <-a.queue:
			a.write(ctx, r)
		default:
			return
		}
	}
}

func (a *Archive) write(ctx context.Context, r *ledger.Receipt) {
	err := a.put(ctx, r)
	if err != nil {
		a.logger.Error(ctx, "archive write failed", "tx", r.TxHash.Hex(), "error", err)
	}
	a.onResult(err == nil)
}

func (a *Archive) put(ctx context.Context, r *ledger.Receipt) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(r)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"request-id": uuid.NewString()},
	})
	return err
}
