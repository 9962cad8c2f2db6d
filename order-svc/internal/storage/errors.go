package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"qr-dine/order-svc/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var constraintFields = map[string]string{
	"users_username_key":                       "username",
	"users_email_key":                          "email",
	"restaurants_name_key":                     "name",
	"dining_tables_restaurant_id_table_id_key": "table_id",
	"orders_pkey":                              "order_id",
}

// translate maps driver errors onto domain errors. what names the entity for
// sql.ErrNoRows.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(what)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			field, ok := constraintFields[pqErr.Constraint]
			if !ok {
				field = "non_field_errors"
			}
			return domain.Duplicate(field, fmt.Sprintf("%s with this %s already exists", what, strings.ReplaceAll(field, "_", " ")))
		case pqForeignKeyViolation:
			return domain.Validation("non_field_errors", "%s references a row that does not exist", what)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// scopeClause renders a Scope as a WHERE clause over the restaurants table
// aliased r, appending its arguments to args.
func scopeClause(scope domain.Scope, args []any) (string, []any) {
	var conds []string
	if scope.None {
		conds = append(conds, "FALSE")
	}
	if scope.OwnerID != 0 {
		args = append(args, scope.OwnerID)
		conds = append(conds, fmt.Sprintf("r.owner_id = $%d", len(args)))
	}
	if scope.RestaurantID != 0 {
		args = append(args, scope.RestaurantID)
		conds = append(conds, fmt.Sprintf("r.id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// and appends one more condition to a clause built by scopeClause.
func and(clause, cond string) string {
	if clause == "" {
		return " WHERE " + cond
	}
	return clause + " AND " + cond
}
