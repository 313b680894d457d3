package team

import "errors"

var (
	ErrMemberNotFound = errors.New("team member not found")
	ErrAlreadyMember  = errors.New("user is already on the team")
)
