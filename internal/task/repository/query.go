package repository

import (
	"fmt"

	"github.com/mkravtsov/taskdeck/internal/task/domain"
)

const (
	defaultSortField = "created_at"
	defaultSortOrder = "DESC"
)

// sortFields is the only place a caller-influenced string can reach query
// text. Values are fixed column names, never the raw input.
var sortFields = map[string]string{
	"id":         "id",
	"title":      "title",
	"completed":  "completed",
	"created_at": "created_at",
}

var sortOrders = map[string]string{
	"asc":  "ASC",
	"desc": "DESC",
}

// NormalizeSort maps the requested sort onto the allow-list. Anything
// unrecognized silently falls back to created_at DESC; this is injection
// defense, not a user-facing error. Callers recording the sort anywhere
// (query text, metric labels) must use the normalized values, never the
// raw input.
func NormalizeSort(sortBy, order string) (string, string) {
	field, ok := sortFields[sortBy]
	if !ok {
		field = defaultSortField
	}

	direction, ok := sortOrders[order]
	if !ok {
		direction = defaultSortOrder
	}

	return field, direction
}

// ownerPredicate builds the WHERE clause shared by the listing and the
// counting query, so the page and the total can never disagree on the
// filter. All values are bound parameters.
func ownerPredicate(ownerID string, completed *bool) (string, []any) {
	clause := "WHERE user_id = $1"
	args := []any{ownerID}

	if completed != nil {
		clause += fmt.Sprintf(" AND completed = $%d", len(args)+1)
		args = append(args, *completed)
	}

	return clause, args
}

func buildListQuery(ownerID string, q domain.ListQuery) (string, []any) {
	clause, args := ownerPredicate(ownerID, q.Completed)
	field, direction := NormalizeSort(q.SortBy, q.Order)

	query := fmt.Sprintf(
		`SELECT id, user_id, title, completed, created_at FROM tasks %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		clause, field, direction, len(args)+1, len(args)+2,
	)
	args = append(args, q.Limit, q.Offset)

	return query, args
}

func buildCountQuery(ownerID string, q domain.ListQuery) (string, []any) {
	clause, args := ownerPredicate(ownerID, q.Completed)
	return fmt.Sprintf(`SELECT COUNT(*) FROM tasks %s`, clause), args
}
