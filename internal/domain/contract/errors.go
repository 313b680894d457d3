package contract

import "errors"

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrPropertyMismatch = errors.New("property does not belong to landlord")
)
