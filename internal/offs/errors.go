package offs

import "errors"

// ErrAlreadyRegistered is returned by Register/ExecuteDelayed when the label
// is already occupied.
var ErrAlreadyRegistered = errors.New("offs: label already registered")
