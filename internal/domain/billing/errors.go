package billing

import "errors"

var ErrPaymentNotFound = errors.New("payment not found")
