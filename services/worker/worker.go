package worker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"zuverschenken/adwatcher/internal/crawler"
	"zuverschenken/adwatcher/internal/filter"
	"zuverschenken/adwatcher/logger"
	apperrors "zuverschenken/adwatcher/pkg/errors"
	"zuverschenken/adwatcher/services/notifier"
	"zuverschenken/adwatcher/services/publisher"
	"zuverschenken/adwatcher/services/tracker"
)

// Options holds the optional worker settings
type Options struct {
	// PollMin and PollMax bound the random pause between cycles, in whole seconds
	PollMin time.Duration
	PollMax time.Duration
	// Sound is passed to sinks that support one
	Sound string
	// Publisher streams are trimmed after every cycle when set
	Publisher publisher.Publisher
	// Now overrides the clock used for the age filter
	Now func() time.Time
}

// CycleResult summarizes one poll cycle
type CycleResult struct {
	Candidates int
	Relevant   int
	New        int
	Notified   int
	Seeded     bool
}

// Worker runs the fetch, filter, diff and notify cycle
type Worker struct {
	crawler   crawler.Crawler
	filter    *filter.Filter
	tracker   tracker.Tracker
	notifier  notifier.Notifier
	publisher publisher.Publisher
	logger    *logger.Logger
	pollMin   time.Duration
	pollMax   time.Duration
	sound     string

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewWorker creates a new worker
func NewWorker(
	c crawler.Crawler,
	f *filter.Filter,
	t tracker.Tracker,
	n notifier.Notifier,
	log *logger.Logger,
	opts Options,
) *Worker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Worker{
		crawler:   c,
		filter:    f,
		tracker:   t,
		notifier:  n,
		publisher: opts.Publisher,
		logger:    log,
		pollMin:   opts.PollMin,
		pollMax:   opts.PollMax,
		sound:     opts.Sound,
		now:       now,
		sleep:     sleepContext,
	}
}

// Start runs cycles until ctx is cancelled. A failing cycle is logged and
// never stops the loop; every cycle ends with a randomized pause.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Str("crawler", w.crawler.GetName()).
		Dur("poll_min", w.pollMin).
		Dur("poll_max", w.pollMax).
		Msg("Start scraping")

	for {
		log := w.cycleLogger()
		start := time.Now()

		result, err := w.runCycle(ctx, log)
		if err != nil {
			logCycleError(log, err)
		} else {
			log.Debug().
				Int("candidates", result.Candidates).
				Int("relevant", result.Relevant).
				Int("new", result.New).
				Int("notified", result.Notified).
				Dur("elapsed", time.Since(start)).
				Msg("Cycle finished")
		}

		pause := w.nextPause()
		log.Info().Dur("pause", pause).Msg("Sleep mode")
		if err := w.sleep(ctx, pause); err != nil {
			w.logger.Info().Msg("Worker stopped")
			return nil
		}
	}
}

// RunCycle runs a single fetch, filter, diff and notify pass
func (w *Worker) RunCycle(ctx context.Context) (CycleResult, error) {
	return w.runCycle(ctx, w.cycleLogger())
}

func (w *Worker) runCycle(ctx context.Context, log *logger.Logger) (result CycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()

	ads, err := w.crawler.FetchAds(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch ads: %w", err)
	}
	result.Candidates = len(ads)

	relevant, stats := w.filter.Apply(ads, w.now())
	result.Relevant = len(relevant)
	log.Debug().
		Int("ads", len(ads)).
		Int("excluded", stats.Excluded).
		Int("stale", stats.Stale).
		Msg("Ads filtered")
	if logger.IsDebugEnabled() {
		for _, ad := range relevant {
			log.Debug().Str("title", ad.Title).Time("published_at", ad.PublishedAt).Msg("Relevant ad")
		}
	}

	if !w.tracker.Seeded() {
		w.tracker.Seed(relevant)
		result.Seeded = true
		log.Info().Int("tracked", w.tracker.Len()).Msg("Seen ads initialized")
		return result, nil
	}

	fresh := w.tracker.Diff(relevant)
	result.New = len(fresh)
	log.Debug().
		Int("tracked", w.tracker.Len()).
		Int("relevant", len(relevant)).
		Int("new", len(fresh)).
		Msg("Ads compared")

	if len(fresh) == 0 {
		log.Info().Msg("No new ads")
	}

	for _, ad := range fresh {
		alert := notifier.NewAlert(ad, w.sound)
		if err := w.notifier.Notify(ctx, alert); err != nil {
			log.Warn().Err(err).Str("title", ad.Title).Str("link", ad.Link).Msg("Notification failed")
		} else {
			result.Notified++
			log.Info().Str("title", ad.Title).Str("published_at", alert.Message).Msg("Notification has been sent")
		}
		w.tracker.Track(ad)
	}

	if w.publisher != nil && len(fresh) > 0 {
		if err := w.publisher.TrimStreams(ctx); err != nil {
			logger.ForPublisher().Warn().Err(err).Msg("Failed to trim streams")
		}
	}

	return result, nil
}

// nextPause returns a uniformly random whole number of seconds in [pollMin, pollMax]
func (w *Worker) nextPause() time.Duration {
	lo := int(w.pollMin / time.Second)
	hi := int(w.pollMax / time.Second)
	if hi <= lo {
		return time.Duration(lo) * time.Second
	}
	return time.Duration(lo+rand.IntN(hi-lo+1)) * time.Second
}

func (w *Worker) cycleLogger() *logger.Logger {
	return w.logger.WithFields(logger.Fields{
		"cycle_id": uuid.NewString(),
		"crawler":  w.crawler.GetName(),
	})
}

func logCycleError(log *logger.Logger, err error) {
	event := log.WithError(err).Error()
	if errType, ok := apperrors.TypeOf(err); ok {
		event = event.Str("error_type", string(errType))
	}
	event.Msg("Cycle failed")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
