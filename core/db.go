package core

import "context"

// Transactor runs fn inside a database transaction carried by the context passed to fn.
// Repositories called with that context join the transaction. Nested calls reuse the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type DBOrdering struct {
	Field     string
	Ascending bool
	NullsLast bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	s := ord.Field + " " + direction
	if ord.NullsLast {
		s += " NULLS LAST"
	}
	return s
}
