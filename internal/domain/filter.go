package domain

// TicketField names a filterable ticket column.
type TicketField string

const (
	FieldTitle       TicketField = "title"
	FieldDescription TicketField = "description"
	FieldStatus      TicketField = "status"
	FieldPriority    TicketField = "priority"
	FieldCreatedBy   TicketField = "created_by_id"
	FieldAssignedTo  TicketField = "assigned_to_id"
)

// FilterOp is the comparison applied by a predicate.
type FilterOp string

const (
	// OpEquals compares for exact equality.
	OpEquals FilterOp = "eq"
	// OpContainsFold matches a case-insensitive substring across Fields (OR).
	OpContainsFold FilterOp = "icontains"
)

// TicketPredicate is one condition of a TicketFilter. Fields holds more than one
// entry only for OpContainsFold, where any field may match.
type TicketPredicate struct {
	Fields []TicketField
	Op     FilterOp
	Value  any
}

// TicketFilter is a conjunction of predicates. The zero value matches every ticket.
type TicketFilter struct {
	Predicates []TicketPredicate
}

// Where appends an equality predicate.
func (f TicketFilter) Where(field TicketField, value any) TicketFilter {
	f.Predicates = append(append([]TicketPredicate(nil), f.Predicates...), TicketPredicate{
		Fields: []TicketField{field},
		Op:     OpEquals,
		Value:  value,
	})
	return f
}

// Contains appends a case-insensitive substring predicate matching any of fields.
func (f TicketFilter) Contains(term string, fields ...TicketField) TicketFilter {
	f.Predicates = append(append([]TicketPredicate(nil), f.Predicates...), TicketPredicate{
		Fields: fields,
		Op:     OpContainsFold,
		Value:  term,
	})
	return f
}

// Empty reports whether the filter imposes no constraint.
func (f TicketFilter) Empty() bool {
	return len(f.Predicates) == 0
}
