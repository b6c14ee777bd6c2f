package services_test

import (
	"context"
	"errors"
	"testing"

	"lunchvote-backend/models"
	"lunchvote-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func votesFor(menuID uint, n int) []models.MenuVote {
	votes := make([]models.MenuVote, n)
	for i := range votes {
		votes[i] = models.MenuVote{MenuID: menuID, UserID: uuid.New(), VotedOn: today}
	}
	return votes
}

func TestTodayRanking(t *testing.T) {
	menus := []models.Menu{
		{ID: 1, RestaurantID: 1, Date: today},
		{ID: 2, RestaurantID: 2, Date: today},
	}
	votes := append(votesFor(2, 1), votesFor(1, 2)...)

	ranking := services.TodayRanking(menus, votes, today)
	require.Len(t, ranking, 2)
	assert.Equal(t, uint(1), ranking[0].Menu.ID)
	assert.Equal(t, 2, ranking[0].Votes)
	assert.Equal(t, uint(2), ranking[1].Menu.ID)
	assert.Equal(t, 1, ranking[1].Votes)

	top, ok := services.TodayTopMenu(menus, votes, today)
	require.True(t, ok)
	assert.Equal(t, uint(1), top.ID)
}

func TestTodayRanking_TieKeepsLowestID(t *testing.T) {
	menus := []models.Menu{
		{ID: 5, Date: today},
		{ID: 3, Date: today},
		{ID: 9, Date: today},
	}
	votes := append(votesFor(5, 1), votesFor(3, 1)...)

	ranking := services.TodayRanking(menus, votes, today)
	require.Len(t, ranking, 3)
	assert.Equal(t, []uint{3, 5, 9}, []uint{ranking[0].Menu.ID, ranking[1].Menu.ID, ranking[2].Menu.ID})
	assert.Zero(t, ranking[2].Votes)
}

func TestTodayRanking_OtherDaysIgnored(t *testing.T) {
	menus := []models.Menu{
		{ID: 1, Date: "2026-10-13"},
		{ID: 2, Date: today},
	}
	votes := votesFor(1, 4)

	ranking := services.TodayRanking(menus, votes, today)
	require.Len(t, ranking, 1)
	assert.Equal(t, uint(2), ranking[0].Menu.ID)
	assert.Zero(t, ranking[0].Votes)
}

func TestTodayTopMenu_NoMenus(t *testing.T) {
	top, ok := services.TodayTopMenu(nil, nil, today)
	assert.False(t, ok)
	assert.Nil(t, top)

	ranking := services.TodayRanking([]models.Menu{{ID: 1, Date: "2026-10-13"}}, nil, today)
	assert.Empty(t, ranking)
}

func TestRanker(t *testing.T) {
	store := newFakeStore()
	store.addMenu(1, 1, today)
	store.addMenu(2, 2, today)
	store.addMenu(3, 3, "2026-10-13")
	store.addVote(2, uuid.New(), today)
	store.addVote(2, uuid.New(), today)
	store.addVote(1, uuid.New(), today)
	store.addVote(3, uuid.New(), "2026-10-13")

	ranker := services.NewRanker(store)

	ranking, err := ranker.Ranking(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, uint(2), ranking[0].Menu.ID)
	assert.Equal(t, 2, ranking[0].Votes)
	assert.Equal(t, uint(1), ranking[1].Menu.ID)
	assert.Equal(t, 1, ranking[1].Votes)

	top, err := ranker.TopMenu(context.Background(), today)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, uint(2), top.Menu.ID)

	top, err = ranker.TopMenu(context.Background(), "2026-10-15")
	require.NoError(t, err)
	assert.Nil(t, top)
}

func TestRanker_StoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("boom")

	_, err := services.NewRanker(store).Ranking(context.Background(), today)
	assert.Error(t, err)
}
