package models

import "errors"

// ErrValidation marks a sample payload that is missing a field or carries a
// value outside its allowed range. Wrap it with fmt.Errorf to add detail.
var ErrValidation = errors.New("validation failed")

// ErrPersistence marks a failed read or write against the sample store.
var ErrPersistence = errors.New("persistence failed")
