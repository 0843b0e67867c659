package engine

import (
	"strings"

	"github.com/geonotify/notify-backend/internal/models"
)

// WhereClause builds the SQL-ish where expression for a statistic filter.
// A nil or empty filter means no restriction ("1=1"). Numeric-looking rule
// values are emitted unquoted; everything else is single-quoted with
// embedded quotes doubled.
func WhereClause(filter *models.StatisticFilter) string {
	if filter == nil {
		return "1=1"
	}
	if expr := strings.TrimSpace(filter.Expression); expr != "" {
		return expr
	}
	if len(filter.Rules) == 0 {
		return "1=1"
	}

	logic := " AND "
	if strings.EqualFold(filter.Logic, "OR") {
		logic = " OR "
	}

	parts := make([]string, 0, len(filter.Rules))
	for _, rule := range filter.Rules {
		parts = append(parts, ruleClause(rule))
	}
	return strings.Join(parts, logic)
}

func ruleClause(rule models.FilterRule) string {
	op := strings.ToUpper(strings.TrimSpace(rule.Operator))
	if op == "" {
		op = "="
	}
	return rule.Field + " " + op + " " + quoteValue(rule.Value, op)
}

func quoteValue(value, operator string) string {
	if operator != "LIKE" {
		if _, ok := TryParseNumeric(value); ok && !strings.Contains(value, ",") {
			return strings.TrimSpace(value)
		}
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// ServerAggregable reports whether an operation can be pushed to the remote
// service as an outStatistics request.
func ServerAggregable(operation string) bool {
	switch operation {
	case models.OpSum, models.OpMean, models.OpMin, models.OpMax, models.OpCount:
		return true
	default:
		return false
	}
}

// RemoteStatisticType maps an operation to the remote aggregation
// vocabulary. Only valid for ServerAggregable operations.
func RemoteStatisticType(operation string) string {
	switch operation {
	case models.OpMean:
		return "avg"
	default:
		return operation
	}
}
