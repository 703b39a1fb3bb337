package testutil

import (
	"context"
	"testing"
	"time"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()
	start := c.Now()
	c.Advance(5 * time.Minute)
	if got := c.Now().Sub(start); got != 5*time.Minute {
		t.Errorf("Advance: elapsed = %v, want 5m", got)
	}
}

func TestClock_Func(t *testing.T) {
	c := NewClock()
	now := c.Func()
	c.Advance(time.Hour)
	if !now().Equal(c.Now()) {
		t.Errorf("Func() = %v, want %v", now(), c.Now())
	}
}

func TestNewEntry_Defaults(t *testing.T) {
	e := NewEntry("Azure Functions", "Compute")
	if !e.Valid() {
		t.Fatal("expected valid entry")
	}
	if e.DocsURL != "https://docs.example.com/azure-functions" {
		t.Errorf("DocsURL = %q", e.DocsURL)
	}
	if e.PricingURL != "" {
		t.Errorf("PricingURL = %q, want empty", e.PricingURL)
	}
}

func TestNewEntry_WithOptions(t *testing.T) {
	e := NewEntry("Power BI", "Analytics",
		WithPricing("https://pricing.example.com"),
		WithOverview("dashboards", []string{"visuals"}, nil),
	)
	if e.PricingURL != "https://pricing.example.com" {
		t.Errorf("PricingURL = %q", e.PricingURL)
	}
	if e.Overview != "dashboards" || len(e.Pros) != 1 {
		t.Errorf("overview not applied: %+v", e)
	}
}

func TestSmallCatalog_UniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range SmallCatalog() {
		if seen[e.Name] {
			t.Errorf("duplicate name %q", e.Name)
		}
		seen[e.Name] = true
	}
}
