package engine

import (
	"testing"

	"github.com/geonotify/notify-backend/internal/models"
)

func TestWhereClauseNoFilter(t *testing.T) {
	if got := WhereClause(nil); got != "1=1" {
		t.Fatalf("nil filter = %q, want 1=1", got)
	}
	if got := WhereClause(&models.StatisticFilter{}); got != "1=1" {
		t.Fatalf("empty filter = %q, want 1=1", got)
	}
}

func TestWhereClauseAdvancedExpression(t *testing.T) {
	f := &models.StatisticFilter{Expression: "STATUS = 'Open' AND PRIORITY > 2"}
	if got := WhereClause(f); got != "STATUS = 'Open' AND PRIORITY > 2" {
		t.Fatalf("expression passthrough = %q", got)
	}
}

func TestWhereClauseRules(t *testing.T) {
	f := &models.StatisticFilter{
		Logic: "AND",
		Rules: []models.FilterRule{
			{Field: "priority", Operator: ">", Value: "2"},
			{Field: "status", Operator: "=", Value: "Open"},
		},
	}
	want := "priority > 2 AND status = 'Open'"
	if got := WhereClause(f); got != want {
		t.Fatalf("rules = %q, want %q", got, want)
	}
}

func TestWhereClauseOrLogic(t *testing.T) {
	f := &models.StatisticFilter{
		Logic: "or",
		Rules: []models.FilterRule{
			{Field: "a", Operator: "=", Value: "1"},
			{Field: "b", Operator: "=", Value: "2"},
		},
	}
	if got := WhereClause(f); got != "a = 1 OR b = 2" {
		t.Fatalf("OR logic = %q", got)
	}
}

func TestWhereClauseQuoteEscaping(t *testing.T) {
	f := &models.StatisticFilter{
		Rules: []models.FilterRule{
			{Field: "name", Operator: "=", Value: "O'Brien"},
		},
	}
	if got := WhereClause(f); got != "name = 'O''Brien'" {
		t.Fatalf("quote escaping = %q", got)
	}
}

func TestServerAggregable(t *testing.T) {
	for _, op := range []string{models.OpSum, models.OpMean, models.OpMin, models.OpMax, models.OpCount} {
		if !ServerAggregable(op) {
			t.Fatalf("%s should be server-aggregable", op)
		}
	}
	for _, op := range []string{models.OpMedian, models.OpDistinct, models.OpFirst, models.OpLast} {
		if ServerAggregable(op) {
			t.Fatalf("%s must evaluate client-side", op)
		}
	}
}

func TestRemoteStatisticType(t *testing.T) {
	if got := RemoteStatisticType(models.OpMean); got != "avg" {
		t.Fatalf("mean maps to %q, want avg", got)
	}
	if got := RemoteStatisticType(models.OpSum); got != "sum" {
		t.Fatalf("sum maps to %q", got)
	}
}
