package distribution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Carbonhell/SmartDisplay/internal/metrics"
	"github.com/Carbonhell/SmartDisplay/internal/publisher"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"golang.org/x/sync/errgroup"
)

type TopicResult struct {
	Topic       string
	Granularity Granularity
	Events      int
	Err         error
}

// Report is the outcome of one run, one result per published topic.
type Report struct {
	StartedAt time.Time
	Scanned   int
	Upcoming  int
	Results   []TopicResult
}

func (r Report) Failed() []TopicResult {
	var failed []TopicResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

type Job struct {
	repo        repository.EventRepository
	publisher   publisher.Publisher
	opts        publisher.Options
	concurrency int
	now         func() time.Time
}

func NewJob(repo repository.EventRepository, pub publisher.Publisher, opts publisher.Options, concurrency int) *Job {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Job{
		repo:        repo,
		publisher:   pub,
		opts:        opts,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run republishes every upcoming event to its building topic and its room
// topic. Only the store scan can fail the run; publish failures are recorded
// in the report and the remaining topics are still attempted.
func (j *Job) Run(ctx context.Context) (Report, error) {
	startedAt := j.now()
	report := Report{StartedAt: startedAt}
	defer func() {
		metrics.DistributionDuration.Observe(time.Since(startedAt).Seconds())
	}()

	events, err := j.repo.ScanEvents(ctx)
	if err != nil {
		return report, fmt.Errorf("scan events: %w", err)
	}
	report.Scanned = len(events)

	future := upcoming(events, startedAt.Unix())
	report.Upcoming = len(future)
	metrics.UpcomingEvents.Set(float64(len(future)))
	slog.Info("distribution events loaded", "scanned", len(events), "upcoming", len(future), "expired", len(events)-len(future))

	groups := buildGroups(future)
	report.Results = j.publishAll(ctx, groups)

	failed := report.Failed()
	slog.Info("distribution finished", "topics", len(report.Results), "failed", len(failed), "elapsed_ms", time.Since(startedAt).Milliseconds())
	return report, nil
}

func (j *Job) publishAll(ctx context.Context, groups []Group) []TopicResult {
	results := make([]TopicResult, len(groups))
	var g errgroup.Group
	g.SetLimit(j.concurrency)
	for i, group := range groups {
		g.Go(func() error {
			err := j.publisher.Publish(ctx, group.Topic, group.Events, j.opts)
			status := "ok"
			if err != nil {
				status = "error"
				slog.Error("failed to publish topic", "error", err, "topic", group.Topic, "granularity", group.Granularity, "events", len(group.Events))
			} else {
				slog.Debug("topic published", "topic", group.Topic, "granularity", group.Granularity, "events", len(group.Events))
			}
			metrics.Publishes.WithLabelValues(string(group.Granularity), status).Inc()

			results[i] = TopicResult{
				Topic:       group.Topic,
				Granularity: group.Granularity,
				Events:      len(group.Events),
				Err:         err,
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
