package background

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"bookmart/internal/config"
	"bookmart/internal/jobs"
	"bookmart/internal/log"
)

// JobScheduler manages the periodic catalog jobs
type JobScheduler struct {
	scheduler        gocron.Scheduler
	analyticsRefresh *jobs.AnalyticsRefreshService
	cacheWarming     *jobs.CacheWarmingService
	cfg              *config.AnalyticsConfig
	registered       map[string]gocron.Job
	mu               sync.RWMutex
}

// NewJobScheduler creates a scheduler with the catalog jobs registered
// according to the analytics configuration.
func NewJobScheduler(
	analyticsRefresh *jobs.AnalyticsRefreshService,
	cacheWarming *jobs.CacheWarmingService,
	cfg *config.AnalyticsConfig,
) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:        scheduler,
		analyticsRefresh: analyticsRefresh,
		cacheWarming:     cacheWarming,
		cfg:              cfg,
		registered:       make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Info("starting background job scheduler", zap.Int("jobs", len(js.registered)))
	js.scheduler.Start()
}

// Stop stops the job scheduler, waiting for running jobs to finish
func (js *JobScheduler) Stop() error {
	log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	if js.cfg.Analytics.Enabled {
		interval := time.Duration(js.cfg.Analytics.RefreshIntervalMinutes) * time.Minute
		job, err := js.scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(js.analyticsRefresh.ScheduledAnalyticsRefresh, context.Background()),
			gocron.WithName("catalog-analytics-refresh"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			log.Error("failed to register analytics refresh job", zap.Error(err))
		} else {
			js.registered["analytics-refresh"] = job
		}
	}

	if js.cfg.CacheWarming.Enabled {
		interval := time.Duration(js.cfg.CacheWarming.IntervalMinutes) * time.Minute
		job, err := js.scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(js.cacheWarming.WarmCategoryPaths, context.Background()),
			gocron.WithName("category-path-cache-warming"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			log.Error("failed to register cache warming job", zap.Error(err))
		} else {
			js.registered["cache-warming"] = job
		}
	}
}

// GetJobStatus returns the registered jobs and their next run times
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobList := make([]map[string]string, 0, len(js.registered))
	for name, job := range js.registered {
		entry := map[string]string{"name": name}
		if nextRun, err := job.NextRun(); err == nil {
			entry["next_run"] = nextRun.UTC().Format(time.RFC3339)
		}
		jobList = append(jobList, entry)
	}

	return map[string]interface{}{
		"total_jobs": len(js.registered),
		"jobs":       jobList,
	}
}
