package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileBlocked  = errors.New("profile is not available")
)
