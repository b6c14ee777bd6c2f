package services

import (
	"context"

	"lunchvote-backend/models"

	"github.com/google/uuid"
)

// EntityStore is what the access control engine, the voting guard and the
// ranking query need from persistence. Lookups return ErrNotFound for
// missing rows; CreateVote returns ErrConstraintViolation when the user has
// already voted on that day.
type EntityStore interface {
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	GetMenu(ctx context.Context, id uint) (*models.Menu, error)
	GetMenusByDate(ctx context.Context, date string) ([]models.Menu, error)
	CountVotes(ctx context.Context, menuID uint) (int, error)
	VoteExists(ctx context.Context, userID uuid.UUID, date string) (bool, error)
	CreateVote(ctx context.Context, menuID uint, userID uuid.UUID, date string) (*models.MenuVote, error)
}
