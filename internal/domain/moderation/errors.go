package moderation

import "errors"

var (
	ErrCannotReportSelf = errors.New("cannot report yourself")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateReport  = errors.New("a pending report for this user already exists")
)
