package cssbundle

import "errors"

var (
	// ErrConfig marks an option combination the router cannot act on.
	ErrConfig = errors.New("invalid configuration")
	// ErrEmptyGroup is returned when finalizing a group nobody joined.
	ErrEmptyGroup = errors.New("group has no members")
	// ErrGroupFrozen is returned when a file joins a group after finalize.
	ErrGroupFrozen = errors.New("group already finalized")
)
