package storage

import "errors"

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict is returned when an optimistic update loses to a concurrent writer.
var ErrVersionConflict = errors.New("version conflict")

// ErrAlreadyExists is returned when a record with the same key is already stored.
var ErrAlreadyExists = errors.New("record already exists")

// ErrReferenceClaimed is returned when a provider reference is already bound to a different donation.
var ErrReferenceClaimed = errors.New("provider reference already claimed")
