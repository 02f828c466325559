package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ParseTicketStatus accepts status names case-insensitively.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	status := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// ParseTicketPriority accepts priority names case-insensitively.
func ParseTicketPriority(s string) (TicketPriority, bool) {
	priority := TicketPriority(strings.ToUpper(strings.TrimSpace(s)))
	return priority, priority.Valid()
}

// Ticket is the aggregate for support requests. CreatedBy and AssignedTo are
// populated by the repositories when a ticket is read back.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	CreatedByID  int64
	AssignedToID *int64
	CreatedBy    *User
	AssignedTo   *User
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	CommentCount int
}
