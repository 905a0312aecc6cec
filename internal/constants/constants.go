package constants

import "time"

// Context keys
const (
	ContextKeyEmployeeID   = "employee_id"
	ContextKeyEmployeeRole = "employee_role"
)

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1
)

// Auth
const (
	MinPasswordLength = 8
	TokenLifetime     = 7 * 24 * time.Hour
)

// Reminder sweep
const (
	// DisplayOffset is the fixed clock shift applied throughout the
	// reminder pipeline: the sweep clock runs at now+DisplayOffset and
	// notification timestamps are rendered at due-DisplayOffset.
	DisplayOffset = 2 * time.Hour

	// MatchWindow is how far ahead of a trigger timestamp the sweep
	// considers a reminder due. Wider than the tick interval, so a
	// reminder near the window edge can match on two consecutive ticks.
	MatchWindow = 11 * time.Minute

	DayBeforeOffset  = 24 * time.Hour
	HourBeforeOffset = time.Hour
)
