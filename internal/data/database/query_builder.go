// Package database renders list queries from predicate data. Identifiers are
// quoted with pgx.Identifier and every value is bound as a $N parameter.
package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	In                 ConditionType = "IN"
	// ContainsFold matches a case-insensitive substring. The value is a plain
	// string; LIKE wildcards in it match literally.
	ContainsFold ConditionType = "CONTAINS_FOLD"
	// Blank matches NULL or empty text. NotBlank is its complement.
	Blank    ConditionType = "BLANK"
	NotBlank ConditionType = "NOT_BLANK"

	defaultLimit  = -1
	defaultOffset = -1
)

// Condition is one predicate. Conditions are combined with AND.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereBlank matches rows whose field is NULL or empty.
func WhereBlank(field string) Condition {
	return Condition{Field: field, Type: Blank}
}

// WhereNotBlank matches rows whose field is neither NULL nor empty.
func WhereNotBlank(field string) Condition {
	return Condition{Field: field, Type: NotBlank}
}

// OrderTerm is one ORDER BY key. Text terms put NULL and empty values last in either
// direction and compare with LOWER().
type OrderTerm struct {
	Field string
	Dir   string
	Text  bool
}

// OrderBy orders by a column as stored.
func OrderBy(field, dir string) OrderTerm {
	return OrderTerm{Field: field, Dir: dir}
}

// OrderText orders case-insensitively with blanks last.
func OrderText(field, dir string) OrderTerm {
	return OrderTerm{Field: field, Dir: dir, Text: true}
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	Order      []OrderTerm
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithConditions sets the entire list of conditions.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = conds
	}
}

// WithOrder appends ORDER BY keys in priority order.
func WithOrder(terms ...OrderTerm) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Order = append(o.Order, terms...)
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly sets the query to count only. ORDER BY, LIMIT and OFFSET are
// not rendered for count queries.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sanitizeQualifiedIdentifier quotes "table.column" style identifiers part by part.
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// EscapeLike escapes LIKE metacharacters using the default backslash escape.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildSelectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	cols := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		cols[i] = sanitizeQualifiedIdentifier(col)
	}
	return fmt.Sprintf("SELECT %s ", strings.Join(cols, ", "))
}

func normalizeDir(dir string) string {
	upper := strings.ToUpper(strings.TrimSpace(dir))
	if upper == "ASC" || upper == "DESC" {
		return " " + upper
	}
	return ""
}

func buildOrderClause(terms []OrderTerm) string {
	parts := make([]string, 0, len(terms)*2)
	for _, term := range terms {
		if term.Field == "" {
			continue
		}
		col := sanitizeQualifiedIdentifier(term.Field)
		dir := normalizeDir(term.Dir)
		if term.Text {
			parts = append(parts,
				fmt.Sprintf("(%s IS NULL OR %s = '') ASC", col, col),
				fmt.Sprintf("LOWER(%s)%s", col, dir),
			)
			continue
		}
		parts = append(parts, col+dir)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func buildPaginationAndOrderClause(
	options *ListQueryOptions,
	startParamIndex int,
	initialArgs []any,
) (string, []any) {
	var clause strings.Builder
	args := initialArgs
	paramCount := startParamIndex

	clause.WriteString(buildOrderClause(options.Order))

	if options.Limit != defaultLimit {
		clause.WriteString(fmt.Sprintf(" LIMIT $%d", paramCount))
		args = append(args, options.Limit)
		paramCount++
	}
	if options.Offset != defaultOffset {
		clause.WriteString(fmt.Sprintf(" OFFSET $%d", paramCount))
		args = append(args, options.Offset)
	}
	return clause.String(), args
}

// BuildListQuery constructs a SQL query string and arguments from options.
//
//	options := NewListQueryOptions("listings",
//		WithColumns("id", "title"),
//		WithCondition(WhereCond("source", In, []string{"BNP", "SG"})),
//		WithOrder(OrderText("title", "asc"), OrderBy("posted", "desc")),
//		WithLimit(20),
//		WithOffset(0),
//	)
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	whereClause, whereArgs, nextParamCount := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}

	if options.CountOnly {
		return query.String(), whereArgs
	}

	tail, args := buildPaginationAndOrderClause(options, nextParamCount, whereArgs)
	query.WriteString(tail)
	return query.String(), args
}

func handleStandardCondition(cond Condition, field string, paramCount int) (string, []any, int) {
	return fmt.Sprintf("%s %s $%d", field, cond.Type, paramCount), []any{cond.Value}, paramCount + 1
}

// handleInCondition accepts any slice type. Empty slices render nothing.
func handleInCondition(cond Condition, field string, paramCount int) (string, []any, int) {
	rv := reflect.ValueOf(cond.Value)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return "", nil, paramCount
	}

	placeholders := make([]string, rv.Len())
	args := make([]any, rv.Len())
	currentParam := paramCount
	for i := range rv.Len() {
		placeholders[i] = fmt.Sprintf("$%d", currentParam)
		args[i] = rv.Index(i).Interface()
		currentParam++
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", ")), args, currentParam
}

func handleContainsFold(cond Condition, field string, paramCount int) (string, []any, int) {
	s, ok := cond.Value.(string)
	if !ok || s == "" {
		return "", nil, paramCount
	}
	pattern := "%" + EscapeLike(s) + "%"
	return fmt.Sprintf("LOWER(%s) LIKE LOWER($%d)", field, paramCount), []any{pattern}, paramCount + 1
}

func processCondition(cond Condition, paramCount int) (string, []any, int) {
	if cond.Field == "" {
		return "", nil, paramCount
	}
	field := sanitizeQualifiedIdentifier(cond.Field)

	switch cond.Type {
	case In:
		return handleInCondition(cond, field, paramCount)
	case ContainsFold:
		return handleContainsFold(cond, field, paramCount)
	case Blank:
		return fmt.Sprintf("(%s IS NULL OR %s = '')", field, field), nil, paramCount
	case NotBlank:
		return fmt.Sprintf("(%s IS NOT NULL AND %s <> '')", field, field), nil, paramCount
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual:
		return handleStandardCondition(cond, field, paramCount)
	}
	return "", nil, paramCount
}

// buildWhereClause renders conditions joined by AND and returns the next free
// parameter index.
func buildWhereClause(inputConditions []Condition, startParamIndex int) (string, []any, int) {
	conditions := make([]string, 0, len(inputConditions))
	args := []any{}
	paramCount := startParamIndex

	for _, cond := range inputConditions {
		conditionStr, newArgs, nextParamCount := processCondition(cond, paramCount)
		if conditionStr != "" {
			conditions = append(conditions, conditionStr)
			args = append(args, newArgs...)
			paramCount = nextParamCount
		}
	}

	if len(conditions) == 0 {
		return "", args, paramCount
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, paramCount
}
