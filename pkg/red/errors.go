package red

import (
	"errors"
	"fmt"
)

// ErrMissingASIN indicates a name carries no {ASIN.XXXXXXXXXX} token.
var ErrMissingASIN = errors.New("no ASIN found in name")

// MissingASINError reports the name that failed to tokenize.
type MissingASINError struct {
	Name string
}

func (e *MissingASINError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingASIN, e.Name)
}

func (e *MissingASINError) Unwrap() error {
	return ErrMissingASIN
}
