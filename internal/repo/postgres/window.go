package postgres

import (
	"fmt"
	"strings"

	"github.com/geocoder89/postboard/internal/domain/post"
	"github.com/geocoder89/postboard/internal/pagination"
)

// windowSpec describes a windowable table: which columns carry the primary
// id, the owner and the visibility flag. The builders below only ever touch
// the table through this descriptor.
type windowSpec struct {
	table         string
	selectCols    string
	idCol         string
	ownerCol      string
	visibilityCol string
}

// scopeConds renders a visibility scope into WHERE conditions starting at
// positional arg argPos. An ownerless private scope matches nothing.
func (w windowSpec) scopeConds(scope post.Scope, argPos int) ([]string, []interface{}, int) {
	var conds []string
	var args []interface{}

	if scope.Private {
		if scope.Owner == nil {
			return []string{"FALSE"}, nil, argPos
		}

		conds = append(conds, fmt.Sprintf("%s = $%d", w.ownerCol, argPos))
		args = append(args, *scope.Owner)
		argPos++

		conds = append(conds, fmt.Sprintf("%s = TRUE", w.visibilityCol))

		return conds, args, argPos
	}

	conds = append(conds, fmt.Sprintf("%s = FALSE", w.visibilityCol))

	return conds, args, argPos
}

// buildWindowQuery assembles the single windowed read: predicate, ordering
// by primary id, limit and offset all applied server-side.
func (w windowSpec) buildWindowQuery(scope post.Scope, p pagination.Params) (string, []interface{}) {
	conds, args, argPos := w.scopeConds(scope, 1)

	query := fmt.Sprintf("SELECT %s FROM %s", w.selectCols, w.table)

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	dir := "ASC"

	if p.Order == pagination.OrderDesc {
		dir = "DESC"
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", w.idCol, dir, argPos, argPos+1)
	args = append(args, p.Limit, p.Offset)

	return query, args
}

// buildGetQuery assembles the scoped single-row read used by post-by-id.
func (w windowSpec) buildGetQuery(id int64, scope post.Scope) (string, []interface{}) {
	conds := []string{fmt.Sprintf("%s = $1", w.idCol)}
	args := []interface{}{id}

	scoped, scopedArgs, _ := w.scopeConds(scope, 2)
	conds = append(conds, scoped...)
	args = append(args, scopedArgs...)

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", w.selectCols, w.table, strings.Join(conds, " AND "))

	return query, args
}
