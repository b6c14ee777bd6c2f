package services

import (
	"context"

	"lunchvote-backend/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

const (
	DefaultMinAppVersion = "2.0.0"
	OutdatedAppWarning   = "Your app version is outdated."
)

// VoteResult is a successful outcome. VotingAllowed is false for a
// soft-decline: nothing was stored and Warning tells the client why.
type VoteResult struct {
	VotingAllowed bool
	Warning       string
	Vote          *models.MenuVote
}

// VotingGuard enforces one vote per employee per day and the client
// version gate.
type VotingGuard struct {
	store         EntityStore
	minAppVersion string
	comparator    VersionComparator
	log           *zap.SugaredLogger
}

func NewVotingGuard(store EntityStore, minAppVersion string, comparator VersionComparator, log *zap.SugaredLogger) (*VotingGuard, error) {
	if minAppVersion == "" {
		minAppVersion = DefaultMinAppVersion
	}
	if comparator == nil {
		comparator = SemverComparator{}
	}
	if _, ok := comparator.(SemverComparator); ok && !semver.IsValid(canonical(minAppVersion)) {
		return nil, errors.Errorf("invalid minimum app version %q", minAppVersion)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &VotingGuard{
		store:         store,
		minAppVersion: minAppVersion,
		comparator:    comparator,
		log:           log,
	}, nil
}

// SubmitVote records a vote of principal for menuID on today. The duplicate
// check runs before the version gate, so a second vote is rejected with
// ErrDuplicateVote even from outdated clients.
func (g *VotingGuard) SubmitVote(ctx context.Context, principal Principal, menuID uint, clientVersion, today string) (VoteResult, error) {
	exists, err := g.store.VoteExists(ctx, principal.ID, today)
	if err != nil {
		return VoteResult{}, errors.Wrap(err, "failed to check existing vote")
	}
	if exists {
		return VoteResult{}, ErrDuplicateVote
	}

	if clientVersion == "" {
		clientVersion = DefaultClientVersion
	}
	if g.comparator.Less(clientVersion, g.minAppVersion) {
		g.log.Infow("vote declined for outdated client",
			"user", principal.ID, "menu", menuID, "version", clientVersion, "minimum", g.minAppVersion)
		return VoteResult{VotingAllowed: false, Warning: OutdatedAppWarning}, nil
	}

	vote, err := g.store.CreateVote(ctx, menuID, principal.ID, today)
	if errors.Is(err, ErrConstraintViolation) {
		// lost the race against a concurrent vote of the same user
		return VoteResult{}, ErrDuplicateVote
	}
	if err != nil {
		return VoteResult{}, errors.Wrap(err, "failed to store vote")
	}

	return VoteResult{VotingAllowed: true, Vote: vote}, nil
}
