package position

import (
	"context"
	"testing"

	"pledge/pkg/number"
)

func TestMemoryFindAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	p, err := s.Find(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}

	if p.UserID != "alice" || !p.IsEmpty() {
		t.Errorf("absent user must yield the zero-value position, got %+v", p)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	p, _ := s.Find(ctx, "alice")
	p.LoanBalance = number.Decimal("100")
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	// mutating the caller's copy must not leak into the store
	p.LoanBalance = number.Decimal("999")

	got, err := s.Find(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}

	if !got.LoanBalance.Equal(number.Decimal("100")) {
		t.Errorf("loan balance = %s, want 100", got.LoanBalance)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("All returned %d positions, want 1", len(all))
	}
}
