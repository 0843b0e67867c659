package models

// Statistic operations. Sum/Mean/Min/Max/Count can be pushed to the remote
// service; the rest always evaluate client-side.
const (
	OpSum      = "sum"
	OpMean     = "mean"
	OpMin      = "min"
	OpMax      = "max"
	OpCount    = "count"
	OpMedian   = "median"
	OpDistinct = "distinct"
	OpFirst    = "first"
	OpLast     = "last"
)

// Statistic is a named aggregate exposed to templates as the placeholder
// {{<id>}}. The id must not collide with reserved placeholder names or with
// another statistic on the same template; the service enforces both at save.
type Statistic struct {
	ID        string           `firestore:"id" json:"id"`
	Field     string           `firestore:"field" json:"field"`
	Operation string           `firestore:"operation" json:"operation"`
	Label     string           `firestore:"label" json:"label"`
	Filter    *StatisticFilter `firestore:"filter,omitempty" json:"filter,omitempty"`
	Format    ValueFormat      `firestore:"format" json:"format"`
}

// ValueFormat controls rendering of an evaluated statistic. Decimals is a
// pointer so an explicit zero is distinct from unset; unset means the
// format's own default applies.
type ValueFormat struct {
	Format     string `firestore:"format,omitempty" json:"format,omitempty"` // auto|text|number|currency|percent|date
	Decimals   *int   `firestore:"decimals,omitempty" json:"decimals,omitempty"`
	Prefix     string `firestore:"prefix,omitempty" json:"prefix,omitempty"`
	Suffix     string `firestore:"suffix,omitempty" json:"suffix,omitempty"`
	Currency   string `firestore:"currency,omitempty" json:"currency,omitempty"`
	DateFormat string `firestore:"dateFormat,omitempty" json:"dateFormat,omitempty"`
}

// StatisticFilter restricts the records a statistic evaluates over. Either
// Expression is a raw where clause, or Rules are combined with Logic
// (AND/OR). Neither set means no restriction.
type StatisticFilter struct {
	Logic      string       `firestore:"logic,omitempty" json:"logic,omitempty"` // AND|OR
	Rules      []FilterRule `firestore:"rules,omitempty" json:"rules,omitempty"`
	Expression string       `firestore:"expression,omitempty" json:"expression,omitempty"`
}

// FilterRule is one field comparison inside a StatisticFilter.
type FilterRule struct {
	Field    string `firestore:"field" json:"field"`
	Operator string `firestore:"operator" json:"operator"` // =, <>, >, >=, <, <=, LIKE
	Value    string `firestore:"value" json:"value"`
}
