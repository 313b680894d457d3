package repair

import "errors"

var ErrOrderNotFound = errors.New("repair order not found")
