package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
)

// CommentRepository manages ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	// ListByTicket returns the ticket's comments with their authors, oldest first.
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentSelect = `
        SELECT c.id, c.ticket_id, c.user_id, c.content, c.created_at,
               u.id, u.username, u.email, u.full_name, u.role, u.enabled
        FROM comments c
        JOIN users u ON u.id = c.user_id`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, user_id, content, created_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID)
	return translatePgError(err)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	comment, err := scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id=$1`, id))
	if err != nil {
		return nil, translatePgError(err)
	}
	return comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE c.ticket_id=$1 ORDER BY c.created_at ASC, c.id ASC`, ticketID)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var (
		comment domain.Comment
		author  domain.User
	)
	if err := row.Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
		&author.ID,
		&author.Username,
		&author.Email,
		&author.FullName,
		&author.Role,
		&author.Enabled,
	); err != nil {
		return nil, err
	}
	comment.Author = &author
	return &comment, nil
}
