package accounts

import (
	"errors"

	"jobboard-backend/internal/shared/apperr"
)

var (
	ErrUserNotFound    = apperr.Wrap(apperr.ErrNotFound, "User")
	ErrCompanyNotFound = apperr.Wrap(apperr.ErrNotFound, "Company")
	ErrUserExists      = apperr.Wrap(apperr.ErrAlreadyExists, "User")
	ErrCompanyExists   = apperr.Wrap(apperr.ErrAlreadyExists, "Company")
	// ErrEmailInUse rejects a registration whose email belongs to the other
	// account kind when emails are unique across kinds.
	ErrEmailInUse = apperr.Wrap(apperr.ErrAlreadyExists, "Email")

	ErrInvalidCredentials = apperr.ErrInvalidCredentials

	// ErrEmailTaken is returned by repositories on a unique email violation.
	ErrEmailTaken = errors.New("email already registered")
)
