package repository

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"

	"crm_console_backend/internal/quotes/numbering"
)

var (
	_ numbering.Counter = (*Repository)(nil)
	_ numbering.Seeder  = (*Repository)(nil)
)

func TestListOrderSortsQuoteNumbersBySequence(t *testing.T) {
	if strings.Contains(listOrderBy, "THEN quote_number END") {
		t.Fatal("quote numbers must not be ordered as text")
	}
	if got := strings.Count(listOrderBy, quoteSequenceExpr); got != 2 {
		t.Fatalf("expected sequence expression in both directions, found %d", got)
	}
}

// The Postgres substring pattern is mirrored here to check it picks the
// trailing sequence even when the tenant slug contains digits.
func TestQuoteSequencePatternOrdersNumerically(t *testing.T) {
	pattern := regexp.MustCompile(`([0-9]+)$`)
	if !strings.Contains(quoteSequenceExpr, pattern.String()) {
		t.Fatalf("sequence expression %q does not use %q", quoteSequenceExpr, pattern.String())
	}

	numbers := []string{
		numbering.Format("ACME-2024", 10000),
		numbering.Format("ACME-2024", 9999),
		numbering.Format("ACME-2024", 1001),
	}
	sort.Slice(numbers, func(i, j int) bool {
		a, _ := strconv.ParseInt(pattern.FindString(numbers[i]), 10, 64)
		b, _ := strconv.ParseInt(pattern.FindString(numbers[j]), 10, 64)
		return a < b
	})

	want := []string{"QUO-ACME-2024-1001", "QUO-ACME-2024-9999", "QUO-ACME-2024-10000"}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, numbers)
		}
	}
}
