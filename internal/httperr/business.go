package httperr

import "errors"

// BusinessError is a rule refusal identified by a stable code, e.g.
// "invalid_state". Handlers turn the code into the response's error_code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return "business rule: " + e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err, or anything it wraps, is the refusal code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	return errors.As(err, &be) && be.Code == code
}
