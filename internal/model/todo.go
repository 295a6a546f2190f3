package model

// Todo is a single task list entry.
//
// ID is assigned by the store (monotonic integer). UserID is nullable in the
// schema, so it is a pointer here and serializes as null when unset.
type Todo struct {
	ID     int64   `json:"id"      db:"id"`
	Todo   string  `json:"todo"    db:"todo"`
	UserID *string `json:"user_id" db:"user_id"`
}

// OwnedBy reports whether the todo belongs to userID.
func (t *Todo) OwnedBy(userID string) bool {
	return t.UserID != nil && *t.UserID == userID
}
