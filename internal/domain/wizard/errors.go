package wizard

import "errors"

var (
	ErrSessionNotFound = errors.New("onboarding session not found")
	ErrStepNotOptional = errors.New("this step cannot be skipped")
	ErrAlreadyDone     = errors.New("onboarding already finished")
)
