package viewing

import "errors"

var ErrAppointmentNotFound = errors.New("viewing appointment not found")
