package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	// GetByID loads the ticket with its creator, assignee and comment count.
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// List returns tickets matching every predicate of filter, ordered by id.
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	// Delete removes the ticket together with its comments.
	Delete(ctx context.Context, id int64) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// ticketColumns lists the filterable columns and their qualified names.
var ticketColumns = map[domain.TicketField]string{
	domain.FieldTitle:       "t.title",
	domain.FieldDescription: "t.description",
	domain.FieldStatus:      "t.status",
	domain.FieldPriority:    "t.priority",
	domain.FieldCreatedBy:   "t.created_by_id",
	domain.FieldAssignedTo:  "t.assigned_to_id",
}

const ticketSelect = `
        SELECT t.id, t.title, t.description, t.status, t.priority, t.created_by_id, t.assigned_to_id,
               t.created_at, t.updated_at,
               cu.id, cu.username, cu.email, cu.full_name, cu.role, cu.enabled,
               au.id, au.username, au.email, au.full_name, au.role, au.enabled,
               (SELECT COUNT(*) FROM comments c WHERE c.ticket_id = t.id)
        FROM tickets t
        JOIN users cu ON cu.id = t.created_by_id
        LEFT JOIN users au ON au.id = t.assigned_to_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, created_by_id, assigned_to_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CreatedByID,
		ticket.AssignedToID,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	).Scan(&ticket.ID)
	return translatePgError(err)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, assigned_to_id=$5, updated_at=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedToID,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id))
	if err != nil {
		return nil, translatePgError(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	where, args, err := buildTicketWhere(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.id`, ticketSelect, where)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE ticket_id=$1`, id); err != nil {
			return translatePgError(err)
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
		if err != nil {
			return translatePgError(err)
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// buildTicketWhere renders filter as a conjunction of $n-parameterized clauses.
func buildTicketWhere(filter domain.TicketFilter) (string, []any, error) {
	clauses := []string{"1=1"}
	args := []any{}

	for _, p := range filter.Predicates {
		switch p.Op {
		case domain.OpEquals:
			if len(p.Fields) != 1 {
				return "", nil, fmt.Errorf("equality predicate needs exactly one field, got %d", len(p.Fields))
			}
			column, ok := ticketColumns[p.Fields[0]]
			if !ok {
				return "", nil, fmt.Errorf("unknown ticket field %q", p.Fields[0])
			}
			args = append(args, p.Value)
			clauses = append(clauses, fmt.Sprintf("%s=$%d", column, len(args)))
		case domain.OpContainsFold:
			term, ok := p.Value.(string)
			if !ok {
				return "", nil, fmt.Errorf("substring predicate needs a string value")
			}
			args = append(args, LikePattern(term))
			placeholder := fmt.Sprintf("$%d", len(args))
			ors := make([]string, 0, len(p.Fields))
			for _, field := range p.Fields {
				column, ok := ticketColumns[field]
				if !ok {
					return "", nil, fmt.Errorf("unknown ticket field %q", field)
				}
				ors = append(ors, fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, column, placeholder))
			}
			clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
		default:
			return "", nil, fmt.Errorf("unsupported filter operator %q", p.Op)
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		creator  domain.User
		assignee struct {
			ID       *int64
			Username *string
			Email    *string
			FullName *string
			Role     *string
			Enabled  *bool
		}
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedByID,
		&ticket.AssignedToID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&creator.ID,
		&creator.Username,
		&creator.Email,
		&creator.FullName,
		&creator.Role,
		&creator.Enabled,
		&assignee.ID,
		&assignee.Username,
		&assignee.Email,
		&assignee.FullName,
		&assignee.Role,
		&assignee.Enabled,
		&ticket.CommentCount,
	); err != nil {
		return nil, err
	}
	ticket.CreatedBy = &creator
	if assignee.ID != nil {
		ticket.AssignedTo = &domain.User{
			ID:       *assignee.ID,
			Username: deref(assignee.Username),
			Email:    deref(assignee.Email),
			FullName: deref(assignee.FullName),
			Role:     domain.Role(deref(assignee.Role)),
			Enabled:  assignee.Enabled != nil && *assignee.Enabled,
		}
	}
	return &ticket, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
