package repository

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
)

func TestBuildTicketWhere(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.TicketFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty filter matches everything",
			filter:    domain.TicketFilter{},
			wantWhere: "1=1",
			wantArgs:  []any{},
		},
		{
			name:      "status only",
			filter:    domain.TicketFilter{}.Where(domain.FieldStatus, domain.TicketStatusOpen),
			wantWhere: "1=1 AND t.status=$1",
			wantArgs:  []any{domain.TicketStatusOpen},
		},
		{
			name: "search status and priority",
			filter: domain.TicketFilter{}.
				Contains("Printer", domain.FieldTitle, domain.FieldDescription).
				Where(domain.FieldStatus, domain.TicketStatusOpen).
				Where(domain.FieldPriority, domain.TicketPriorityHigh),
			wantWhere: `1=1 AND (LOWER(t.title) LIKE $1 ESCAPE '\' OR LOWER(t.description) LIKE $1 ESCAPE '\') AND t.status=$2 AND t.priority=$3`,
			wantArgs:  []any{"%printer%", domain.TicketStatusOpen, domain.TicketPriorityHigh},
		},
		{
			name:      "assignee",
			filter:    domain.TicketFilter{}.Where(domain.FieldAssignedTo, int64(4)),
			wantWhere: "1=1 AND t.assigned_to_id=$1",
			wantArgs:  []any{int64(4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := buildTicketWhere(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildTicketWhere_RejectsUnknownField(t *testing.T) {
	_, _, err := buildTicketWhere(domain.TicketFilter{}.Where(domain.TicketField("1=1; DROP TABLE tickets"), "x"))
	require.Error(t, err)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%printer%", LikePattern("PRINTER"))
	assert.Equal(t, `%100\%\_done\\%`, LikePattern(`100%_done\`))
}

func TestTranslatePgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrReferenced},
		{"too long", &pgconn.PgError{Code: "22001"}, ErrValueTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translatePgError(tt.err), tt.want)
		})
	}

	other := &pgconn.PgError{Code: "40001"}
	assert.Same(t, other, translatePgError(other))
}
