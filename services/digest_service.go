// services/digest_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"lunchvote-backend/models"
	"lunchvote-backend/utils"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DigestStore is the persistence the daily digest needs.
type DigestStore interface {
	EntityStore
	DigestLogExists(ctx context.Context, date string) (bool, error)
	CreateDigestLog(ctx context.Context, entry *models.DigestLog) error
}

// DigestService announces the winning menu of the day to its restaurant.
type DigestService struct {
	store    DigestStore
	ranker   *Ranker
	notifier Notifier
	log      *zap.SugaredLogger
	loc      *time.Location
	now      func() time.Time
	cron     *cron.Cron
}

// NewDigestService accepts a nil notifier; results are then only logged.
func NewDigestService(store DigestStore, notifier Notifier, loc *time.Location, log *zap.SugaredLogger) *DigestService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DigestService{
		store:    store,
		ranker:   NewRanker(store),
		notifier: notifier,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

// Start schedules Run for the current day on schedule, a standard 5-field cron expression.
func (s *DigestService) Start(schedule string) error {
	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(schedule, func() {
		today := utils.Day(s.now(), s.loc)
		if _, err := s.Run(context.Background(), today); err != nil {
			s.log.Errorw("daily digest failed", "date", today, "error", err)
		}
	})
	if err != nil {
		return errors.Wrapf(err, "invalid digest schedule %q", schedule)
	}

	s.cron = c
	c.Start()
	s.log.Infow("digest scheduler started", "schedule", schedule)
	return nil
}

func (s *DigestService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Run announces the winner of today once. It returns nil without error when
// the digest for today was already recorded.
func (s *DigestService) Run(ctx context.Context, today string) (*models.DigestLog, error) {
	done, err := s.store.DigestLogExists(ctx, today)
	if err != nil {
		return nil, err
	}
	if done {
		s.log.Debugw("digest already recorded", "date", today)
		return nil, nil
	}

	top, err := s.ranker.TopMenu(ctx, today)
	if err != nil {
		return nil, err
	}

	entry := &models.DigestLog{
		Date:    today,
		Channel: "none",
		Status:  models.DigestStatusSkipped,
		SentAt:  s.now(),
	}

	switch {
	case top == nil:
		entry.ErrorMessage = "no menu published"
	case top.Votes == 0:
		s.fillWinner(entry, top)
		entry.ErrorMessage = "no votes cast"
	default:
		s.fillWinner(entry, top)
		s.announce(ctx, entry, top)
	}

	if err := s.store.CreateDigestLog(ctx, entry); err != nil {
		if errors.Is(err, ErrConstraintViolation) {
			return nil, nil
		}
		return nil, err
	}

	s.log.Infow("daily digest recorded", "date", today, "status", entry.Status, "votes", entry.Votes)
	return entry, nil
}

func (s *DigestService) fillWinner(entry *models.DigestLog, top *RankedMenu) {
	menuID := top.Menu.ID
	restaurantID := top.Menu.RestaurantID
	entry.MenuID = &menuID
	entry.RestaurantID = &restaurantID
	entry.Votes = top.Votes
}

func (s *DigestService) announce(ctx context.Context, entry *models.DigestLog, top *RankedMenu) {
	if s.notifier == nil {
		return
	}

	restaurant := top.Menu.Restaurant
	if restaurant == nil {
		var err error
		if restaurant, err = s.store.GetRestaurant(ctx, top.Menu.RestaurantID); err != nil {
			entry.Status = models.DigestStatusFailed
			entry.ErrorMessage = err.Error()
			return
		}
	}

	message := fmt.Sprintf("%s: your menu won today's lunch vote with %d votes!", restaurant.Title, top.Votes)
	entry.Channel = s.notifier.Channel()

	sid, err := s.notifier.Send(ctx, restaurant.PhoneNumber, message)
	if err != nil {
		s.log.Warnw("failed to send digest", "restaurant", restaurant.ID, "error", err)
		entry.Status = models.DigestStatusFailed
		entry.ErrorMessage = err.Error()
		return
	}

	s.log.Infow("digest sent", "restaurant", restaurant.ID, "sid", sid)
	entry.Status = models.DigestStatusSent
}
