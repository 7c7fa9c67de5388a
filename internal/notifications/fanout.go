// Package notifications delivers new-post notifications to followers.
package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ovra/internal/models"
	"ovra/internal/observability"
	"ovra/internal/repository"
)

const (
	defaultQueueSize = 256
	jobTimeout       = 30 * time.Second
	previewLength    = 140
)

type fanoutJob struct {
	PostID     uint
	AuthorID   uint
	AuthorName string
	Preview    string
}

// Fanout writes a notification row for every follower of a post's author.
// Jobs are processed by a single background worker; failures are logged and
// dropped, never surfaced to the request that created the post.
type Fanout struct {
	followRepo repository.FollowRepository
	notifRepo  repository.NotificationRepository

	jobs chan fanoutJob
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewFanout creates a fan-out dispatcher with the default queue size.
func NewFanout(followRepo repository.FollowRepository, notifRepo repository.NotificationRepository) *Fanout {
	return &Fanout{
		followRepo: followRepo,
		notifRepo:  notifRepo,
		jobs:       make(chan fanoutJob, defaultQueueSize),
		stop:       make(chan struct{}),
	}
}

// Start launches the background worker.
func (f *Fanout) Start() {
	f.wg.Add(1)
	go f.run()
}

// Stop drains queued jobs and waits for the worker to exit.
func (f *Fanout) Stop() {
	f.once.Do(func() {
		close(f.stop)
	})
	f.wg.Wait()
}

// Enqueue queues a fan-out job for the given post. Non-blocking; when the
// queue is full the job is dropped and counted.
func (f *Fanout) Enqueue(postID, authorID uint, authorName, content string) {
	job := fanoutJob{
		PostID:     postID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Preview:    preview(content),
	}
	select {
	case f.jobs <- job:
		observability.NotificationFanoutQueueDepth.Set(float64(len(f.jobs)))
	default:
		observability.NotificationFanoutJobs.WithLabelValues("dropped").Inc()
	}
}

func (f *Fanout) run() {
	defer f.wg.Done()
	for {
		select {
		case job := <-f.jobs:
			observability.NotificationFanoutQueueDepth.Set(float64(len(f.jobs)))
			f.process(job)
		case <-f.stop:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case job := <-f.jobs:
					f.process(job)
				default:
					observability.NotificationFanoutQueueDepth.Set(0)
					return
				}
			}
		}
	}
}

func (f *Fanout) process(job fanoutJob) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	ctx, span := observability.TraceFanout(ctx, job.PostID)
	defer span.End()

	fields := map[string]interface{}{"post_id": job.PostID, "author_id": job.AuthorID}
	observability.LogAsyncOperationStart(ctx, "notification_fanout", fields)

	followerIDs, err := f.followRepo.GetFollowerIDs(ctx, job.AuthorID)
	if err != nil {
		span.RecordError(err)
		observability.NotificationFanoutJobs.WithLabelValues("error").Inc()
		observability.LogAsyncOperationError(ctx, "notification_fanout", err, fields)
		return
	}
	if len(followerIDs) == 0 {
		observability.NotificationFanoutJobs.WithLabelValues("success").Inc()
		observability.LogAsyncOperationEnd(ctx, "notification_fanout", fields)
		return
	}

	postID := job.PostID
	batch := make([]models.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		batch = append(batch, models.Notification{
			UserID:   followerID,
			AuthorID: job.AuthorID,
			PostID:   &postID,
			Type:     models.NotificationTypeNewPost,
			Title:    fmt.Sprintf("New post from %s", job.AuthorName),
			Message:  job.Preview,
		})
	}

	if err := f.notifRepo.CreateBatch(ctx, batch); err != nil {
		span.RecordError(err)
		observability.NotificationFanoutJobs.WithLabelValues("error").Inc()
		observability.LogAsyncOperationError(ctx, "notification_fanout", err, fields)
		return
	}

	observability.NotificationsDelivered.Add(float64(len(batch)))
	observability.NotificationFanoutJobs.WithLabelValues("success").Inc()
	fields["delivered"] = len(batch)
	observability.LogAsyncOperationEnd(ctx, "notification_fanout", fields)
}

// preview truncates content to a notification-sized excerpt on a rune
// boundary.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength-1]) + "…"
}
