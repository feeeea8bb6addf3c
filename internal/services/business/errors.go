package business

import "errors"

// Service errors
var (
	ErrNotFound        = errors.New("business not found")
	ErrAlreadyExists   = errors.New("user already owns a business")
	ErrNotOnboarded    = errors.New("business has not completed payment onboarding")
	ErrInvalidFeePayer = errors.New("fee payer must be customer or business")
)
