package workers

import (
	"context"
	"sync"
	"time"

	"wellnest/repositories"
	"wellnest/services"
	"wellnest/websocket"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AffirmationWorker pushes each connected user their daily affirmation
// around the configured local hour. Delivery is best-effort: users who
// are offline at delivery time fetch theirs over REST instead.
type AffirmationWorker struct {
	contentService *services.ContentService
	userRepo       *repositories.UserRepository
	hub            *websocket.Hub

	// Local hour (0-23) at which affirmations go out
	deliveryHour int

	interval time.Duration

	// userID -> local date last delivered, trimmed daily
	delivered map[string]string
	mutex     sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAffirmationWorker(contentService *services.ContentService, userRepo *repositories.UserRepository, hub *websocket.Hub) *AffirmationWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &AffirmationWorker{
		contentService: contentService,
		userRepo:       userRepo,
		hub:            hub,
		deliveryHour:   8,
		interval:       10 * time.Minute,
		delivered:      make(map[string]string),
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (w *AffirmationWorker) Start() {
	w.wg.Add(1)
	go w.run()
	logrus.Info("Affirmation worker started")
}

func (w *AffirmationWorker) Stop() {
	w.cancel()
	w.wg.Wait()
	logrus.Info("Affirmation worker stopped")
}

func (w *AffirmationWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.deliverDue()
			w.pruneDelivered(time.Now())
		case <-w.ctx.Done():
			return
		}
	}
}

// deliverDue walks currently connected users and delivers to those whose
// local clock has passed the delivery hour today.
func (w *AffirmationWorker) deliverDue() {
	userIDs := w.hub.ConnectedUserIDs()
	if len(userIDs) == 0 {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(userIDs))
	for _, id := range userIDs {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		ids = append(ids, objectID)
	}

	ctx, cancel := context.WithTimeout(w.ctx, 2*time.Minute)
	defer cancel()

	users, err := w.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		logrus.Errorf("Affirmation worker failed to load users: %v", err)
		return
	}

	now := time.Now()
	for i := range users {
		user := &users[i]
		if !user.Preferences.Notifications.DailyAffirmation {
			continue
		}

		local := now.In(user.Location())
		if local.Hour() < w.deliveryHour {
			continue
		}

		userID := user.ID.Hex()
		localDate := local.Format("2006-01-02")
		if !w.markDelivered(userID, localDate) {
			continue
		}

		if err := w.contentService.DeliverDailyAffirmation(ctx, user); err != nil {
			logrus.Warnf("Affirmation delivery failed for %s: %v", userID, err)
			w.unmarkDelivered(userID)
		}
	}
}

// markDelivered records today's delivery; returns false when already
// delivered for that local date.
func (w *AffirmationWorker) markDelivered(userID, localDate string) bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.delivered[userID] == localDate {
		return false
	}
	w.delivered[userID] = localDate
	return true
}

func (w *AffirmationWorker) unmarkDelivered(userID string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	delete(w.delivered, userID)
}

// pruneDelivered drops entries from past local dates so the map tracks
// at most one entry per recently-seen user.
func (w *AffirmationWorker) pruneDelivered(now time.Time) {
	cutoff := now.AddDate(0, 0, -2).Format("2006-01-02")

	w.mutex.Lock()
	defer w.mutex.Unlock()

	for userID, date := range w.delivered {
		if date < cutoff {
			delete(w.delivered, userID)
		}
	}
}
