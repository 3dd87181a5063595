package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/api/metrics"
	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ActivityDispatcher persists audit entries asynchronously through a fixed
// set of workers sharded by user id, preserving per-user ordering. Writes
// are best-effort: a persistence failure is logged and the entry dropped,
// and a full worker channel drops the entry rather than blocking the
// request path.
type ActivityDispatcher struct {
	workers []chan *domain.ActivityEntry
	repo    ports.ActivityRepository
	log     zerolog.Logger
}

// NewActivityDispatcher creates a dispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewActivityDispatcher(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *ActivityDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &ActivityDispatcher{
		workers: make([]chan *domain.ActivityEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.ActivityEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *ActivityDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an audit entry on the worker responsible for its user.
// Never blocks and never fails the caller.
func (d *ActivityDispatcher) Record(entry *domain.ActivityEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	idx := d.shardIndex(entry.UserID)
	select {
	case d.workers[idx] <- entry:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityWriteFailures.Inc()
		d.log.Warn().
			Str("user_id", entry.UserID).
			Str("action", entry.Action).
			Msg("activity queue full, dropping entry")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *ActivityDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *ActivityDispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.ActivityEntry) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.repo.Insert(ctx, entry); err != nil {
				metrics.ActivityWriteFailures.Inc()
				d.log.Error().Err(err).
					Str("user_id", entry.UserID).
					Str("action", entry.Action).
					Int("worker_id", id).
					Msg("failed to write activity log")
			}
		}
	}
}
