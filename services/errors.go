package services

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("unique constraint violated")

	ErrPermissionDenied      = errors.New("You do not have permission to perform this action.")
	ErrDuplicateVote         = errors.New("You have already voted!")
	ErrAlreadyOwnsRestaurant = errors.New("User have already registered a restaurant!")
)
