package workers

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/futureforceai/careerprep/internal/clients/aibackend"
	"github.com/futureforceai/careerprep/internal/extract"
	mongorepo "github.com/futureforceai/careerprep/internal/repositories/mongo"
	"github.com/futureforceai/careerprep/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	defaultStream = "cv:extract"
	defaultGroup  = "extract-workers"
	maxAttempts   = 3
)

// ExtractQueue produces extraction jobs for the worker pool.
type ExtractQueue struct {
	Redis  *redis.Client
	Stream string
}

func (q *ExtractQueue) Enqueue(ctx context.Context, cvID string) error {
	stream := q.Stream
	if stream == "" {
		stream = defaultStream
	}
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"cv_id": cvID, "attempt": 1},
	}).Err()
}

// ExtractWorkerPool consumes CV extraction jobs: read the stored bytes,
// extract text locally, fall back to the AI backend's extractor, and record
// the result on the CV document. Failed jobs are retried with backoff up to
// maxAttempts.
type ExtractWorkerPool struct {
	Redis      *redis.Client
	CVs        mongorepo.CVRepository
	Files      storage.Reader
	Backend    *aibackend.Client
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ExtractWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.CVs == nil || p.Files == nil {
		return errors.New("ExtractWorkerPool missing dependency: Redis/CVs/Files must be set")
	}
	if p.Stream == "" {
		p.Stream = defaultStream
	}
	if p.Group == "" {
		p.Group = defaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ExtractWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

// Backoff returns the delay before the given retry attempt (1-based).
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func (p *ExtractWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	cvID := getStr("cv_id")
	if cvID == "" {
		return
	}
	attempt, _ := strconv.Atoi(getStr("attempt"))
	if attempt < 1 {
		attempt = 1
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id": msg.ID,
		"cv_id":    cvID,
		"attempt":  attempt,
	})

	if err := p.extractOne(ctx, cvID); err != nil {
		log.WithError(err).Warn("cv text extraction failed")
		p.retry(ctx, cvID, attempt, log)
		return
	}
	log.Info("cv text extracted")
}

func (p *ExtractWorkerPool) retry(ctx context.Context, cvID string, attempt int, log *logrus.Entry) {
	if attempt >= maxAttempts {
		log.Error("cv text extraction giving up")
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(Backoff(attempt)):
	}

	err := p.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream,
		Values: map[string]any{"cv_id": cvID, "attempt": attempt + 1},
	}).Err()
	if err != nil {
		log.WithError(err).Error("failed to requeue cv extraction")
	}
}

func (p *ExtractWorkerPool) extractOne(ctx context.Context, cvID string) error {
	cv, err := p.CVs.GetByID(ctx, cvID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cv.ExtractedText) != "" {
		return nil // already done, requeued duplicate
	}

	data, err := p.Files.ReadAll(ctx, cv.StoragePath)
	if err != nil {
		return err
	}

	text, err := extract.Text(cv.FileName, data)
	if (err != nil || strings.TrimSpace(text) == "") && p.Backend != nil {
		text, err = p.Backend.ExtractText(ctx, cv.OriginalName, bytes.NewReader(data))
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("extraction produced no text")
	}

	return p.CVs.SetExtractedText(ctx, cvID, text)
}
