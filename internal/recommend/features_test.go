package recommend

import (
	"reflect"
	"testing"
)

func TestExtract_CapabilityFlags(t *testing.T) {
	f := Extract(Request{
		Capabilities: map[string]bool{
			"AI/ML":             true,
			"Data Analytics":    true,
			"  Hybrid   Cloud ": true,
			"DevOps":            false,
		},
	})

	for _, want := range []string{"ai/ml", "data analytics", "hybrid cloud"} {
		if !f.Has(want) {
			t.Errorf("missing capability feature %q in %v", want, f.Sorted())
		}
	}
	if f.Has("devops") {
		t.Error("unchecked capability should not be a feature")
	}
}

func TestExtract_ExactFeatures(t *testing.T) {
	f := Extract(Request{UseCase: "Serverless ETL."})
	want := []string{"etl", "serverless"}
	if got := f.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_VocabularyAndTokens(t *testing.T) {
	f := Extract(Request{
		UseCase:       "Ingest real-time IoT telemetry, show dashboards.",
		NonFunctional: "High availability",
		Compliance:    "HIPAA",
	})

	for _, want := range []string{
		"real-time", "iot", "dashboard", // vocabulary phrases
		"ingest", "telemetry", "dashboards", "high", "availability", "hipaa", // tokens
	} {
		if !f.Has(want) {
			t.Errorf("missing feature %q in %v", want, f.Sorted())
		}
	}
	if f.Has("telemetry,") || f.Has("dashboards.") {
		t.Error("tokens should have trailing punctuation trimmed")
	}
}

func TestExtract_PunctuationOnlyTokensDropped(t *testing.T) {
	f := Extract(Request{UseCase: " ... , ! -- "})
	if len(f) != 0 {
		t.Errorf("Extract() = %v, want empty", f.Sorted())
	}
	if f.Has("") {
		t.Error("empty token must never be a feature")
	}
}

func TestExtract_Empty(t *testing.T) {
	f := Extract(Request{Capabilities: map[string]bool{"AI/ML": false}})
	if len(f) != 0 {
		t.Errorf("Extract() = %v, want empty", f.Sorted())
	}
}

func TestExtract_UnicodeNormalized(t *testing.T) {
	// Fullwidth letters fold to ASCII under NFKC.
	f := Extract(Request{UseCase: "ＡＩ"})
	if !f.Has("ai") {
		t.Errorf("expected fullwidth input to normalize to %q, got %v", "ai", f.Sorted())
	}
}

func TestExtract_Deterministic(t *testing.T) {
	req := Request{
		UseCase:      "stream events into a data warehouse",
		Capabilities: map[string]bool{"Serverless": true, "AI/ML": true},
	}
	first := Extract(req).Sorted()
	for i := 0; i < 10; i++ {
		if got := Extract(req).Sorted(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Extract() = %v, want %v", i, got, first)
		}
	}
}
