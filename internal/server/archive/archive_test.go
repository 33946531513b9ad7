package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type putCall struct {
	bucket, key, contentType string
	body                     []byte
	meta                     map[string]string
}

type fakePutter struct {
	mu    sync.Mutex
	calls []putCall
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, putCall{
		bucket:      aws.ToString(in.Bucket),
		key:         aws.ToString(in.Key),
		contentType: aws.ToString(in.ContentType),
		body:        body,
		meta:        in.Metadata,
	})
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakePutter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func receipt(hash string, at time.Time) *ledger.Receipt {
	return &ledger.Receipt{
		TxHash:      common.HexToHash(hash),
		Kind:        ledger.KindFund,
		Success:     true,
		Logs:        []ledger.Log{},
		FinalizedAt: at.Unix(),
	}
}

func TestKey(t *testing.T) {
	r := receipt("0xabc", time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "receipts/2025/03/09/"+r.TxHash.Hex()+".json", Key(r))
}

func TestArchive_WritesReceipts(t *testing.T) {
	p := &fakePutter{}
	a := New("receipts", p, 4, nopLogger())

	var mu sync.Mutex
	var results []bool
	a.OnResult(func(ok bool) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, ok)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	r := receipt("0x01", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	a.Finalized(ctx, r)

	require.Eventually(t, func() bool { return p.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	c := p.calls[0]
	assert.Equal(t, "receipts", c.bucket)
	assert.Equal(t, Key(r), c.key)
	assert.Equal(t, "application/json", c.contentType)
	assert.Contains(t, string(c.body), `"txHash":"`+r.TxHash.Hex()+`"`)
	assert.NotEmpty(t, c.meta["request-id"])
	assert.Equal(t, []bool{true}, results)
}

func TestArchive_FailuresAreReportedNotFatal(t *testing.T) {
	p := &fakePutter{err: errors.New("access denied")}
	a := New("b", p, 2, nopLogger())

	var failed int
	a.OnResult(func(ok bool) {
		if !ok {
			failed++
		}
	})

	a.Finalized(context.Background(), receipt("0x01", time.Now()))
	a.Finalized(context.Background(), receipt("0x02", time.Now()))
	// buffer is full: skipped without blocking
	a.Finalized(context.Background(), receipt("0x03", time.Now()))
	assert.Equal(t, 1, failed)

	// a cancelled context still flushes what was buffered
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Run(ctx)

	assert.Equal(t, 2, p.count())
	assert.Equal(t, 3, failed)
}

func TestNewS3Client(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var region string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		region = lo.Region
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	c, err := NewS3Client(context.Background(), Settings{
		Region:    "eu-central-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "eu-central-1", region)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Client_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := NewS3Client(context.Background(), Settings{Region: "us-east-1"})
	assert.ErrorContains(t, err, "no profile")
}
