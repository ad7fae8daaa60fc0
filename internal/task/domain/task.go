package domain

import "time"

// Task belongs to exactly one user; ownership never changes. ID and
// CreatedAt are assigned by storage.
type Task struct {
	ID        int64
	UserID    string
	Title     string
	Completed bool
	CreatedAt time.Time
}

// UpdateFields is a partial update: only non-nil fields are written.
type UpdateFields struct {
	Title     *string
	Completed *bool
}

func (f UpdateFields) Empty() bool {
	return f.Title == nil && f.Completed == nil
}

// ListQuery carries the caller-controlled listing parameters. SortBy and
// Order are free-form here; the repository maps them through its
// allow-list. Limit and Offset are validated at the HTTP boundary.
type ListQuery struct {
	Completed *bool
	SortBy    string
	Order     string
	Limit     int
	Offset    int
}
