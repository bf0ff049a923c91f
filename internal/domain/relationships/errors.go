package relationships

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrCannotLikeSelf         = errors.New("cannot like yourself")
	ErrCannotBlockSelf        = errors.New("cannot block yourself")
	ErrLikeNotFound           = errors.New("like not found")
	ErrBlockNotFound          = errors.New("block not found")
	ErrUserBlocked            = errors.New("user is blocked")
	ErrProfilePictureRequired = errors.New("a profile picture is required to like")
)
