package services

import (
	"context"
	"strings"

	"lunchvote-backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormStore is the EntityStore used in production, plus the CRUD the
// controllers need.
type GormStore struct {
	db *gorm.DB
}

var _ EntityStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, msg)
	case isUniqueViolation(err):
		return errors.Wrap(ErrConstraintViolation, msg)
	}
	return errors.Wrap(err, msg)
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error, "failed to create user")
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get user")
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "failed to get user by email")
	}
	return &user, nil
}

func (s *GormStore) SaveUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Save(user).Error, "failed to save user")
}

// Restaurants

func (s *GormStore) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err, "failed to get restaurant")
	}
	return &restaurant, nil
}

func (s *GormStore) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := s.db.WithContext(ctx).Order("id").Find(&restaurants).Error; err != nil {
		return nil, translate(err, "failed to list restaurants")
	}
	return restaurants, nil
}

func (s *GormStore) CountRestaurantsByManager(ctx context.Context, managerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("manager_id = ?", managerID).
		Count(&count).Error
	return count, translate(err, "failed to count restaurants")
}

func (s *GormStore) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return translate(s.db.WithContext(ctx).Create(restaurant).Error, "failed to create restaurant")
}

func (s *GormStore) SaveRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return translate(s.db.WithContext(ctx).Save(restaurant).Error, "failed to save restaurant")
}

// DeleteRestaurant removes the restaurant with its menus and their votes.
func (s *GormStore) DeleteRestaurant(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menuIDs := tx.Model(&models.Menu{}).Select("id").Where("restaurant_id = ?", id)
		if err := tx.Where("menu_id IN (?)", menuIDs).Delete(&models.MenuVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Menu{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Restaurant{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "failed to delete restaurant")
}

// Menus

func (s *GormStore) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.WithContext(ctx).Preload("Restaurant").First(&menu, id).Error; err != nil {
		return nil, translate(err, "failed to get menu")
	}
	return &menu, nil
}

// ListMenus returns every menu, or the menus of one day when date is set.
func (s *GormStore) ListMenus(ctx context.Context, date string) ([]models.Menu, error) {
	query := s.db.WithContext(ctx).Order("id")
	if date != "" {
		query = query.Where("date = ?", date)
	}
	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		return nil, translate(err, "failed to list menus")
	}
	return menus, nil
}

func (s *GormStore) GetMenusByDate(ctx context.Context, date string) ([]models.Menu, error) {
	var menus []models.Menu
	err := s.db.WithContext(ctx).Preload("Restaurant").
		Where("date = ?", date).
		Order("id").
		Find(&menus).Error
	if err != nil {
		return nil, translate(err, "failed to get menus by date")
	}
	return menus, nil
}

func (s *GormStore) CreateMenu(ctx context.Context, menu *models.Menu) error {
	return translate(s.db.WithContext(ctx).Omit("Restaurant").Create(menu).Error, "failed to create menu")
}

func (s *GormStore) SaveMenu(ctx context.Context, menu *models.Menu) error {
	return translate(s.db.WithContext(ctx).Omit("Restaurant").Save(menu).Error, "failed to save menu")
}

// DeleteMenu removes the menu and its votes.
func (s *GormStore) DeleteMenu(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", id).Delete(&models.MenuVote{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Menu{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "failed to delete menu")
}

// Votes

func (s *GormStore) CountVotes(ctx context.Context, menuID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MenuVote{}).
		Where("menu_id = ?", menuID).
		Count(&count).Error
	return int(count), translate(err, "failed to count votes")
}

func (s *GormStore) VoteExists(ctx context.Context, userID uuid.UUID, date string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MenuVote{}).
		Where("user_id = ? AND created_at = ?", userID, date).
		Count(&count).Error
	return count > 0, translate(err, "failed to check vote")
}

// CreateVote relies on the (user_id, created_at) unique index so that
// concurrent submissions of the same user cannot both succeed.
func (s *GormStore) CreateVote(ctx context.Context, menuID uint, userID uuid.UUID, date string) (*models.MenuVote, error) {
	vote := &models.MenuVote{MenuID: menuID, UserID: userID, VotedOn: date}
	if err := s.db.WithContext(ctx).Omit("Menu").Create(vote).Error; err != nil {
		return nil, translate(err, "failed to create vote")
	}
	return vote, nil
}

// Digest logs

func (s *GormStore) DigestLogExists(ctx context.Context, date string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DigestLog{}).
		Where("date = ?", date).
		Count(&count).Error
	return count > 0, translate(err, "failed to check digest log")
}

func (s *GormStore) CreateDigestLog(ctx context.Context, entry *models.DigestLog) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error, "failed to create digest log")
}
