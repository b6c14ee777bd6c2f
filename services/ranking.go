package services

import (
	"context"
	"sort"

	"lunchvote-backend/models"

	"github.com/pkg/errors"
)

type RankedMenu struct {
	Menu  models.Menu
	Votes int
}

// TodayRanking orders the menus dated today by vote count, highest first.
// Equal counts keep the lower menu id first.
func TodayRanking(menus []models.Menu, votes []models.MenuVote, today string) []RankedMenu {
	counts := make(map[uint]int)
	for _, vote := range votes {
		counts[vote.MenuID]++
	}
	return rank(menus, counts, today)
}

// TodayTopMenu is the first menu of TodayRanking.
func TodayTopMenu(menus []models.Menu, votes []models.MenuVote, today string) (*models.Menu, bool) {
	ranking := TodayRanking(menus, votes, today)
	if len(ranking) == 0 {
		return nil, false
	}
	return &ranking[0].Menu, true
}

func rank(menus []models.Menu, counts map[uint]int, today string) []RankedMenu {
	ranking := make([]RankedMenu, 0, len(menus))
	for _, menu := range menus {
		if menu.Date != today {
			continue
		}
		ranking = append(ranking, RankedMenu{Menu: menu, Votes: counts[menu.ID]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Votes != ranking[j].Votes {
			return ranking[i].Votes > ranking[j].Votes
		}
		return ranking[i].Menu.ID < ranking[j].Menu.ID
	})
	return ranking
}

// Ranker runs the ranking against the store.
type Ranker struct {
	store EntityStore
}

func NewRanker(store EntityStore) *Ranker {
	return &Ranker{store: store}
}

func (r *Ranker) Ranking(ctx context.Context, today string) ([]RankedMenu, error) {
	menus, err := r.store.GetMenusByDate(ctx, today)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load today's menus")
	}

	counts := make(map[uint]int, len(menus))
	for _, menu := range menus {
		count, err := r.store.CountVotes(ctx, menu.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to count votes for menu %d", menu.ID)
		}
		counts[menu.ID] = count
	}
	return rank(menus, counts, today), nil
}

// TopMenu returns nil when no menu is published for today.
func (r *Ranker) TopMenu(ctx context.Context, today string) (*RankedMenu, error) {
	ranking, err := r.Ranking(ctx, today)
	if err != nil {
		return nil, err
	}
	if len(ranking) == 0 {
		return nil, nil
	}
	return &ranking[0], nil
}
