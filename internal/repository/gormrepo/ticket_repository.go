package gormrepo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/persistence"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
)

var ticketColumns = map[domain.TicketField]string{
	domain.FieldTitle:       "tickets.title",
	domain.FieldDescription: "tickets.description",
	domain.FieldStatus:      "tickets.status",
	domain.FieldPriority:    "tickets.priority",
	domain.FieldCreatedBy:   "tickets.created_by_id",
	domain.FieldAssignedTo:  "tickets.assigned_to_id",
}

const ticketSelect = "tickets.*, (SELECT COUNT(*) FROM comments c WHERE c.ticket_id = tickets.id) AS comment_count"

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository returns a gorm-backed repository.TicketRepository.
func NewTicketRepository(db *gorm.DB) repository.TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	m := newTicketModel(ticket)
	m.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translateError(err)
	}
	ticket.ID = m.ID
	return nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	var assignee, updatedAt any
	if ticket.AssignedToID != nil {
		assignee = *ticket.AssignedToID
	}
	if ticket.UpdatedAt != nil {
		updatedAt = *ticket.UpdatedAt
	}
	res := r.db.WithContext(ctx).Model(&ticketModel{}).Where("id = ?", ticket.ID).Updates(map[string]any{
		"title":          ticket.Title,
		"description":    ticket.Description,
		"status":         string(ticket.Status),
		"priority":       string(ticket.Priority),
		"assigned_to_id": assignee,
		"updated_at":     updatedAt,
	})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&ticketModel{}).
		Select(ticketSelect).
		Preload("CreatedBy").
		Preload("AssignedTo")
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	var m ticketModel
	if err := r.query(ctx).Where("tickets.id = ?", id).Take(&m).Error; err != nil {
		return nil, translateError(err)
	}
	ticket := m.toDomain()
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	q, err := applyTicketFilter(r.query(ctx), filter)
	if err != nil {
		return nil, err
	}

	var models []ticketModel
	if err := q.Order("tickets.id").Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]domain.Ticket, 0, len(models))
	for i := range models {
		result = append(result, models[i].toDomain())
	}
	return result, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&commentModel{}, "ticket_id = ?", id).Error; err != nil {
			return translateError(err)
		}
		res := tx.Delete(&ticketModel{}, "id = ?", id)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// applyTicketFilter chains one Where clause per predicate.
func applyTicketFilter(q *gorm.DB, filter domain.TicketFilter) (*gorm.DB, error) {
	for _, p := range filter.Predicates {
		switch p.Op {
		case domain.OpEquals:
			if len(p.Fields) != 1 {
				return nil, fmt.Errorf("equality predicate needs exactly one field, got %d", len(p.Fields))
			}
			column, ok := ticketColumns[p.Fields[0]]
			if !ok {
				return nil, fmt.Errorf("unknown ticket field %q", p.Fields[0])
			}
			q = q.Where(column+" = ?", sqlValue(p.Value))
		case domain.OpContainsFold:
			term, ok := p.Value.(string)
			if !ok {
				return nil, fmt.Errorf("substring predicate needs a string value")
			}
			pattern := repository.LikePattern(term)
			ors := make([]string, 0, len(p.Fields))
			args := make([]any, 0, len(p.Fields))
			for _, field := range p.Fields {
				column, ok := ticketColumns[field]
				if !ok {
					return nil, fmt.Errorf("unknown ticket field %q", field)
				}
				ors = append(ors, fmt.Sprintf(`%s(%s) LIKE ? ESCAPE '\'`, persistence.UnicodeLower, column))
				args = append(args, pattern)
			}
			q = q.Where("("+strings.Join(ors, " OR ")+")", args...)
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", p.Op)
		}
	}
	return q, nil
}

func sqlValue(v any) any {
	switch value := v.(type) {
	case domain.TicketStatus:
		return string(value)
	case domain.TicketPriority:
		return string(value)
	case domain.Role:
		return string(value)
	}
	return v
}
