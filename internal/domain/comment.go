package domain

import "time"

// Comment is a remark attached to one ticket and authored by one user.
type Comment struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Author    *User
	Content   string
	CreatedAt time.Time
}
