package services

import (
	"context"
	"net/http"

	"lunchvote-backend/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

func (a Action) String() string {
	if a == ActionRead {
		return "read"
	}
	return "write"
}

// ActionForMethod treats GET, HEAD and OPTIONS as reads.
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	}
	return ActionWrite
}

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Principal is the caller of a request. The zero value is anonymous.
type Principal struct {
	ID                uuid.UUID
	IsAuthenticated   bool
	IsRestaurantStaff bool
}

func PrincipalFromUser(user *models.User) Principal {
	return Principal{
		ID:                user.ID,
		IsAuthenticated:   true,
		IsRestaurantStaff: user.IsRestaurantStaff,
	}
}

type ResourceKind int

const (
	ResourceRestaurant ResourceKind = iota + 1
	ResourceMenu
)

// Resource is an existing restaurant or menu targeted by an object-level check.
type Resource struct {
	kind       ResourceKind
	restaurant *models.Restaurant
	menu       *models.Menu
}

func RestaurantResource(r *models.Restaurant) *Resource {
	return &Resource{kind: ResourceRestaurant, restaurant: r}
}

func MenuResource(m *models.Menu) *Resource {
	return &Resource{kind: ResourceMenu, menu: m}
}

func (r *Resource) Kind() ResourceKind {
	return r.kind
}

// OwnerPrincipalID is the manager of the restaurant, or of the menu's
// restaurant. A menu without a preloaded restaurant is resolved through store.
func (r *Resource) OwnerPrincipalID(ctx context.Context, store EntityStore) (uuid.UUID, error) {
	switch r.kind {
	case ResourceRestaurant:
		if r.restaurant == nil {
			return uuid.Nil, ErrNotFound
		}
		return r.restaurant.OwnerPrincipalID(), nil
	case ResourceMenu:
		if r.menu == nil {
			return uuid.Nil, ErrNotFound
		}
		if r.menu.Restaurant != nil {
			return r.menu.Restaurant.OwnerPrincipalID(), nil
		}
		restaurant, err := store.GetRestaurant(ctx, r.menu.RestaurantID)
		if err != nil {
			return uuid.Nil, err
		}
		return restaurant.OwnerPrincipalID(), nil
	}
	return uuid.Nil, ErrNotFound
}

// MenuPayload is the part of a menu create request the engine inspects.
type MenuPayload struct {
	RestaurantID *uint
}

type Request struct {
	Action    Action
	Principal Principal
	Resource  *Resource    // object-level check when set
	Payload   *MenuPayload // menu creation when set
}

// AccessControl separates staff writes from everyone else's reads.
type AccessControl struct {
	store EntityStore
}

func NewAccessControl(store EntityStore) *AccessControl {
	return &AccessControl{store: store}
}

// Authorize evaluates the rules in order and stops at the first match.
// A referenced restaurant that does not exist is a denial, not an error;
// other store failures deny and return the error.
func (a *AccessControl) Authorize(ctx context.Context, req Request) (Decision, error) {
	if req.Action == ActionRead {
		return Allow, nil
	}

	p := req.Principal
	if !p.IsAuthenticated || !p.IsRestaurantStaff {
		return Deny, nil
	}

	if req.Payload != nil && req.Payload.RestaurantID != nil {
		restaurant, err := a.store.GetRestaurant(ctx, *req.Payload.RestaurantID)
		if errors.Is(err, ErrNotFound) {
			return Deny, nil
		}
		if err != nil {
			return Deny, errors.Wrap(err, "failed to load referenced restaurant")
		}
		return Decision(restaurant.OwnerPrincipalID() == p.ID), nil
	}

	if req.Resource != nil {
		owner, err := req.Resource.OwnerPrincipalID(ctx, a.store)
		if errors.Is(err, ErrNotFound) {
			return Deny, nil
		}
		if err != nil {
			return Deny, errors.Wrap(err, "failed to resolve resource owner")
		}
		return Decision(owner == p.ID), nil
	}

	return Allow, nil
}

// EmployeeOnly allows authenticated principals that are not restaurant staff.
func EmployeeOnly(p Principal) Decision {
	return Decision(p.IsAuthenticated && !p.IsRestaurantStaff)
}
