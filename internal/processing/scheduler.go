package processing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// Tracker observes render runs. metrics.Metrics satisfies it.
type Tracker interface {
	RenderStarted() func(status string)
}

// Scheduler runs renders in the background. At most one render per scene is
// in flight: submitting a newer render for a scene cancels the older one.
type Scheduler struct {
	service RenderService
	timeout time.Duration
	tracker Tracker

	mu      sync.Mutex
	running map[string]*job
	wg      sync.WaitGroup
	base    context.Context
	stop    context.CancelFunc
}

type job struct {
	renderID uuid.UUID
	cancel   context.CancelFunc
}

// NewScheduler creates a scheduler. A zero timeout means renders run until
// done or superseded. tracker may be nil.
func NewScheduler(service RenderService, timeout time.Duration, tracker Tracker) *Scheduler {
	base, stop := context.WithCancel(context.Background())
	return &Scheduler{
		service: service,
		timeout: timeout,
		tracker: tracker,
		running: make(map[string]*job),
		base:    base,
		stop:    stop,
	}
}

// Submit starts processing renderID for sceneID, superseding any render of
// the same scene still running.
func (s *Scheduler) Submit(sceneID string, renderID uuid.UUID) {
	var ctx context.Context
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(s.base, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(s.base)
	}
	j := &job{renderID: renderID, cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.running[sceneID]; ok {
		log.Info().
			Str("sceneID", sceneID).
			Str("supersededRender", prev.renderID.String()).
			Str("renderID", renderID.String()).
			Msg("Superseding in-flight render")
		prev.cancel()
	}
	s.running[sceneID] = j
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, sceneID, j)
}

func (s *Scheduler) run(ctx context.Context, sceneID string, j *job) {
	defer s.wg.Done()
	defer func() {
		j.cancel()
		s.mu.Lock()
		if s.running[sceneID] == j {
			delete(s.running, sceneID)
		}
		s.mu.Unlock()
	}()

	var done func(string)
	if s.tracker != nil {
		done = s.tracker.RenderStarted()
	}

	status := models.StatusCompleted
	if err := s.service.ProcessRender(ctx, j.renderID); err != nil {
		status = models.StatusFailed
		if ctx.Err() != nil {
			status = "cancelled"
		}
		log.Error().Err(err).Str("renderID", j.renderID.String()).Str("status", status).Msg("Render did not complete")
	} else {
		log.Info().Str("renderID", j.renderID.String()).Msg("Render completed")
	}

	if done != nil {
		done(status)
	}
}

// Wait blocks until every submitted render has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Shutdown cancels every in-flight render and waits for them to return.
func (s *Scheduler) Shutdown() {
	s.stop()
	s.wg.Wait()
}
