package services

import "errors"

// Not found
var (
	ErrUserNotFound = errors.New("username doesn't exist")
	ErrPostNotFound = errors.New("post does not exist")
	ErrLikeNotFound = errors.New("post is not liked by user")
	ErrNotFollowing = errors.New("user is not followed")
)

// Bad request
var (
	ErrSelfFollow       = errors.New("user cannot follow itself")
	ErrSelfUnfollow     = errors.New("user cannot unfollow itself")
	ErrEmptyContent     = errors.New("post content cannot be empty")
	ErrContentTooLong   = errors.New("post content is too long")
	ErrInvalidUsername  = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrReservedUsername = errors.New("username is reserved")
	ErrInvalidEmail     = errors.New("email address is invalid")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordMismatch = errors.New("passwords must match")
	ErrSentinelAccount  = errors.New("placeholder account cannot be modified")
)

// Conflict
var (
	ErrAlreadyFollowing = errors.New("user already follows this user")
	ErrAlreadyLiked     = errors.New("post is already liked by user")
	ErrContentUnchanged = errors.New("post content is same as original")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already registered")
)

var (
	// ErrNotOwner is returned when a user mutates a post they do not own.
	ErrNotOwner = errors.New("method not supported")
	// ErrInvalidCredentials does not say whether the identifier or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username and/or password")
)
