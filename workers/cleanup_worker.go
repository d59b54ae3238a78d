package workers

import (
	"context"
	"sync"
	"time"

	"wellnest/repositories"

	"github.com/sirupsen/logrus"
)

// CleanupWorker runs periodic maintenance: expired challenges are
// flipped inactive so progress reports against them are rejected.
type CleanupWorker struct {
	groupRepo *repositories.GroupRepository

	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCleanupWorker(groupRepo *repositories.GroupRepository) *CleanupWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &CleanupWorker{
		groupRepo: groupRepo,
		interval:  time.Hour,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *CleanupWorker) Start() {
	w.wg.Add(1)
	go w.run()
	logrus.Info("Cleanup worker started")
}

func (w *CleanupWorker) Stop() {
	w.cancel()
	w.wg.Wait()
	logrus.Info("Cleanup worker stopped")
}

func (w *CleanupWorker) run() {
	defer w.wg.Done()

	// First pass shortly after boot picks up anything that expired
	// while the service was down
	timer := time.NewTimer(time.Minute)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			w.deactivateExpiredChallenges()
			timer.Reset(w.interval)
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *CleanupWorker) deactivateExpiredChallenges() {
	ctx, cancel := context.WithTimeout(w.ctx, time.Minute)
	defer cancel()

	touched, err := w.groupRepo.DeactivateExpiredChallenges(ctx, time.Now())
	if err != nil {
		logrus.Errorf("Challenge cleanup failed: %v", err)
		return
	}

	if touched > 0 {
		logrus.Infof("Deactivated expired challenges in %d groups", touched)
	}
}
