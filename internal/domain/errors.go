package domain

import "errors"

var (
	// ErrInvalidRecord indicates a record failed validation.
	ErrInvalidRecord = errors.New("calories: invalid record")
	// ErrPersistenceCorrupt indicates a stored value could not be decoded.
	ErrPersistenceCorrupt = errors.New("calories: persisted value is corrupt")
	// ErrDuplicateRecord indicates a record id is already in the ledger.
	ErrDuplicateRecord = errors.New("calories: duplicate record id")
	// ErrInvalidLimit indicates a calorie limit outside the accepted range.
	ErrInvalidLimit = errors.New("calories: invalid calorie limit")
)
