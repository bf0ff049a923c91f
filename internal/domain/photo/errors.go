package photo

import "errors"

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrNotPhotoOwner     = errors.New("you can only manage your own photos")
	ErrPhotoLimitReached = errors.New("photo limit reached")
	ErrNoFiles           = errors.New("no files provided")
	ErrInvalidOrder      = errors.New("reorder must list each of your photos exactly once")
)
