// Package gormrepo implements the repository interfaces on gorm, backed by the
// embedded SQLite driver.
package gormrepo

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
)

type userModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"size:50;not null;uniqueIndex"`
	Password  string `gorm:"not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	FullName  string `gorm:"size:255;not null"`
	Role      string `gorm:"size:20;not null"`
	Enabled   bool   `gorm:"not null"`
	CreatedAt time.Time
}

func (userModel) TableName() string { return "users" }

type ticketModel struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Title        string     `gorm:"size:255;not null"`
	Description  string     `gorm:"size:2000;not null"`
	Status       string     `gorm:"size:20;not null;index"`
	Priority     string     `gorm:"size:20;not null"`
	CreatedByID  int64      `gorm:"not null;index"`
	CreatedBy    *userModel `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	AssignedToID *int64     `gorm:"index"`
	AssignedTo   *userModel `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time
	UpdatedAt    *time.Time `gorm:"autoUpdateTime:false"`
	CommentCount int        `gorm:"->;-:migration"`
}

func (ticketModel) TableName() string { return "tickets" }

type commentModel struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	Content   string       `gorm:"size:2000;not null"`
	TicketID  int64        `gorm:"not null;index:idx_comments_ticket_created,priority:1"`
	Ticket    *ticketModel `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	UserID    int64        `gorm:"not null;index"`
	Author    *userModel   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time    `gorm:"index:idx_comments_ticket_created,priority:2"`
}

func (commentModel) TableName() string { return "comments" }

// AutoMigrate creates or updates the users, tickets and comments tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &ticketModel{}, &commentModel{})
}

func newUserModel(u *domain.User) userModel {
	return userModel{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.PasswordHash,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.Password,
		Email:        m.Email,
		FullName:     m.FullName,
		Role:         domain.Role(m.Role),
		Enabled:      m.Enabled,
		CreatedAt:    m.CreatedAt,
	}
}

func newTicketModel(t *domain.Ticket) ticketModel {
	return ticketModel{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		CreatedByID:  t.CreatedByID,
		AssignedToID: t.AssignedToID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (m *ticketModel) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Status:       domain.TicketStatus(m.Status),
		Priority:     domain.TicketPriority(m.Priority),
		CreatedByID:  m.CreatedByID,
		AssignedToID: m.AssignedToID,
		CreatedBy:    m.CreatedBy.toDomain(),
		AssignedTo:   m.AssignedTo.toDomain(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		CommentCount: m.CommentCount,
	}
}

func (m *commentModel) toDomain() domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		TicketID:  m.TicketID,
		UserID:    m.UserID,
		Author:    m.Author.toDomain(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// translateError maps gorm and SQLite errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return errors.Join(repository.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return errors.Join(repository.ErrReferenced, err)
	}
	return err
}
