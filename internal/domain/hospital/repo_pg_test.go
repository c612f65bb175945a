package hospital

import (
	"errors"
	"strings"
	"testing"

	"github.com/medjournal/journal/internal/platform/db/dbtest"
)

func TestListQuery_SearchPlaceholders(t *testing.T) {
	tx := &dbtest.CaptureTx{}
	repo := NewRepo(nil)

	_, _, err := repo.List(dbtest.Context(tx), "больница", 20, 40)
	if !errors.Is(err, dbtest.ErrCaptured) {
		t.Fatalf("expected captured query, got %v", err)
	}
	if len(tx.Queries) != 2 {
		t.Fatalf("expected count + data queries, got %d", len(tx.Queries))
	}

	q := tx.Queries[1]
	if strings.Contains(q, "%!") || strings.Contains(q, "(MISSING)") {
		t.Fatalf("query text mangled by formatting: %s", q)
	}
	for _, want := range []string{
		"name ILIKE '%' || $1 || '%'",
		"address ILIKE '%' || $1 || '%'",
		"LIMIT $2 OFFSET $3",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}
}

func TestListQuery_NoSearch(t *testing.T) {
	tx := &dbtest.CaptureTx{}
	repo := NewRepo(nil)

	_, _, err := repo.List(dbtest.Context(tx), "", 20, 0)
	if !errors.Is(err, dbtest.ErrCaptured) {
		t.Fatalf("expected captured query, got %v", err)
	}
	q := tx.Queries[1]
	if strings.Contains(q, "WHERE") {
		t.Errorf("empty search must not emit a WHERE clause:\n%s", q)
	}
	if !strings.Contains(q, "LIMIT $1 OFFSET $2") {
		t.Errorf("expected LIMIT $1 OFFSET $2:\n%s", q)
	}
}
