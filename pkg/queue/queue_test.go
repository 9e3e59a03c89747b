package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/medicore/pkg/queue"
)

type receiptJob struct {
	OrderID string
	sent    *atomic.Int32
}

func (j *receiptJob) Handle() error {
	if j.sent != nil {
		j.sent.Add(1)
	}
	return nil
}

type brokenJob struct {
	attempts *atomic.Int32
}

func (j *brokenJob) Handle() error {
	if j.attempts != nil {
		j.attempts.Add(1)
	}
	return errors.New("always fails")
}

func init() {
	// Start workers so jobs actually get processed in tests.
	ctx, cancel := context.WithCancel(context.Background())
	_ = cancel
	queue.StartWorkers(ctx, 2)

	queue.Register("*queue_test.receiptJob", func() queue.Job { return &receiptJob{sent: &atomic.Int32{}} })
	queue.Register("*queue_test.brokenJob", func() queue.Job { return &brokenJob{attempts: &atomic.Int32{}} })
}

func TestDispatchAndProcess(t *testing.T) {
	if err := queue.Dispatch(&receiptJob{OrderID: "ORD-1", sent: &atomic.Int32{}}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
}

func TestFailedJobRetry(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&brokenJob{attempts: &atomic.Int32{}}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	// 1 attempt + 1s backoff + slack.
	time.Sleep(2500 * time.Millisecond)

	if len(queue.FailedJobs()) == 0 {
		t.Error("expected at least one failed job")
	}
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&receiptJob{OrderID: "ORD-c", sent: &atomic.Int32{}}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
