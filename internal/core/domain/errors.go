package domain

import "errors"

// Advance lifecycle errors
var (
	ErrAdvanceNotFound  = errors.New("advance not found")
	ErrAlreadyProcessed = errors.New("advance already processed")
	ErrNotRetirable     = errors.New("advance is not retirable")
	ErrNotTeamManager   = errors.New("advance owner does not report to this manager")
	ErrRoleNotAllowed   = errors.New("role is not allowed to cause this transition")
)
