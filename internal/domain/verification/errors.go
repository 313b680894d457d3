package verification

import "errors"

var (
	ErrVerificationNotFound = errors.New("verification not found")
	ErrReviewPending        = errors.New("a verification is already under review")
	ErrAlreadyVerified      = errors.New("user is already verified")
)
