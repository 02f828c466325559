package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
)

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a gorm-backed repository.CommentRepository.
func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	m := commentModel{
		Content:   comment.Content,
		TicketID:  comment.TicketID,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translateError(err)
	}
	comment.ID = m.ID
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var m commentModel
	if err := r.db.WithContext(ctx).Preload("Author").First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	comment := m.toDomain()
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	var models []commentModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}
	result := make([]domain.Comment, 0, len(models))
	for i := range models {
		result = append(result, models[i].toDomain())
	}
	return result, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&commentModel{}, "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
