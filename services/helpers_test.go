package services_test

import (
	"context"
	"sync"
	"testing"

	"lunchvote-backend/config"
	"lunchvote-backend/models"
	"lunchvote-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const today = "2026-10-14"

// fakeStore is an in-memory EntityStore that enforces the same uniqueness
// rules as the database.
type fakeStore struct {
	mu          sync.Mutex
	restaurants map[uint]*models.Restaurant
	menus       map[uint]*models.Menu
	votes       []models.MenuVote
	digests     map[string]*models.DigestLog
	err         error
	lookups     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		restaurants: make(map[uint]*models.Restaurant),
		menus:       make(map[uint]*models.Menu),
		digests:     make(map[string]*models.DigestLog),
	}
}

func (s *fakeStore) addRestaurant(id uint, manager uuid.UUID) *models.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &models.Restaurant{ID: id, ManagerID: manager, Title: "Restaurant", PhoneNumber: "+1234567890"}
	s.restaurants[id] = r
	return r
}

func (s *fakeStore) addMenu(id, restaurantID uint, date string) *models.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &models.Menu{ID: id, RestaurantID: restaurantID, Date: date, Dishes: "Soup"}
	s.menus[id] = m
	return m
}

func (s *fakeStore) addVote(menuID uint, userID uuid.UUID, date string) {
	_, err := s.CreateVote(context.Background(), menuID, userID, date)
	if err != nil {
		panic(err)
	}
}

func (s *fakeStore) voteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes)
}

func (s *fakeStore) GetRestaurant(_ context.Context, id uint) (*models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.restaurants[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeStore) GetMenu(_ context.Context, id uint) (*models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.menus[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *fakeStore) GetMenusByDate(_ context.Context, date string) ([]models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var menus []models.Menu
	for _, m := range s.menus {
		if m.Date == date {
			menus = append(menus, *m)
		}
	}
	return menus, nil
}

func (s *fakeStore) CountVotes(_ context.Context, menuID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	count := 0
	for _, v := range s.votes {
		if v.MenuID == menuID {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) VoteExists(_ context.Context, userID uuid.UUID, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for _, v := range s.votes {
		if v.UserID == userID && v.VotedOn == date {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateVote(_ context.Context, menuID uint, userID uuid.UUID, date string) (*models.MenuVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, v := range s.votes {
		if v.UserID == userID && v.VotedOn == date {
			return nil, services.ErrConstraintViolation
		}
	}
	vote := models.MenuVote{ID: uint(len(s.votes) + 1), MenuID: menuID, UserID: userID, VotedOn: date}
	s.votes = append(s.votes, vote)
	return &vote, nil
}

func (s *fakeStore) DigestLogExists(_ context.Context, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.digests[date]
	return ok, nil
}

func (s *fakeStore) CreateDigestLog(_ context.Context, entry *models.DigestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.digests[entry.Date]; ok {
		return services.ErrConstraintViolation
	}
	s.digests[entry.Date] = entry
	return nil
}

// barrierStore holds every VoteExists caller until n callers have checked,
// so all of them pass the duplicate check before anyone writes.
type barrierStore struct {
	*fakeStore
	arrived sync.WaitGroup
}

func newBarrierStore(n int) *barrierStore {
	s := &barrierStore{fakeStore: newFakeStore()}
	s.arrived.Add(n)
	return s
}

func (s *barrierStore) VoteExists(ctx context.Context, userID uuid.UUID, date string) (bool, error) {
	exists, err := s.fakeStore.VoteExists(ctx, userID, date)
	s.arrived.Done()
	s.arrived.Wait()
	return exists, err
}

func staff() services.Principal {
	return services.Principal{ID: uuid.New(), IsAuthenticated: true, IsRestaurantStaff: true}
}

func employee() services.Principal {
	return services.Principal{ID: uuid.New(), IsAuthenticated: true}
}

// newTestDB opens a private in-memory sqlite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.ConnectDB(&config.Config{
		DBDriver: "sqlite",
		DBURL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}
