package recommend

import (
	"reflect"
	"testing"

	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

func assertRanked(t *testing.T, r Result) {
	t.Helper()
	seen := map[string]bool{}
	for i := range r {
		if seen[r[i].Name] {
			t.Errorf("duplicate name %q in result", r[i].Name)
		}
		seen[r[i].Name] = true
		if i == 0 {
			continue
		}
		prev, cur := r[i-1], r[i]
		if prev.Score < cur.Score {
			t.Errorf("not sorted by score: %s (%d) before %s (%d)", prev.Name, prev.Score, cur.Name, cur.Score)
		}
		if prev.Score == cur.Score && prev.Name > cur.Name {
			t.Errorf("ties not name-ascending: %s before %s", prev.Name, cur.Name)
		}
	}
}

func TestSelect_BothEntriesMatch(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Azure Functions", Category: "Compute"},
		{Name: "Azure Data Factory", Category: "Integration"},
	}
	f := features("functions", "integration")

	for _, mode := range []ScoringMode{ScoringCompat, ScoringStrict} {
		t.Run(string(mode), func(t *testing.T) {
			got := Scorer{Mode: mode}.Select(entries, f, "", Options{MinScore: 1, TopN: 5})
			if len(got) != 2 {
				t.Fatalf("len = %d, want 2", len(got))
			}
			for i := range got {
				if got[i].Score <= 0 {
					t.Errorf("%s score = %d, want > 0", got[i].Name, got[i].Score)
				}
			}
			want := []string{"Azure Data Factory", "Azure Functions"}
			if !reflect.DeepEqual(got.Names(), want) {
				t.Errorf("order = %v, want %v", got.Names(), want)
			}
			assertRanked(t, got)
		})
	}
}

func TestSelect_NoFeaturesEmptyResult(t *testing.T) {
	f := Extract(Request{})
	got := Scorer{}.Select(testCatalog(), f, "", Options{MinScore: 1, TopN: 5})
	if len(got) != 0 {
		t.Errorf("len = %d, want 0: %v", len(got), got.Names())
	}
}

func TestSelect_DedupesByName(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Power BI", Category: "Analytics", DocsURL: "first"},
		{Name: "Power BI", Category: "Analytics", DocsURL: "second"},
		{Name: "Azure Stream Analytics", Category: "Analytics"},
	}
	got := Scorer{}.Select(entries, features("analytics"), "", Options{MinScore: 1, TopN: 10})

	count := 0
	for i := range got {
		if got[i].Name == "Power BI" {
			count++
			if got[i].DocsURL != "first" {
				t.Errorf("kept DocsURL = %q, want first occurrence", got[i].DocsURL)
			}
		}
	}
	if count != 1 {
		t.Errorf("Power BI appears %d times, want 1", count)
	}
	assertRanked(t, got)
}

func TestSelect_TopOneTieBreaksByName(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Zeta Analytics", Category: "Analytics"},
		{Name: "Alpha Analytics", Category: "Analytics"},
	}
	got := Scorer{}.Select(entries, features("analytics"), "", Options{MinScore: 1, TopN: 1})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Name != "Alpha Analytics" {
		t.Errorf("top = %q, want %q", got[0].Name, "Alpha Analytics")
	}
}

func TestSelect_MinScoreFilters(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Azure Functions", Category: "Compute"},     // matches functions + azure
		{Name: "Azure Monitor", Category: "Monitoring"},    // matches azure only
		{Name: "Power BI", Category: "Analytics"},          // no match
	}
	f := features("functions", "azure")

	got := Scorer{Mode: ScoringStrict}.Select(entries, f, "", Options{MinScore: 3, TopN: 10})
	if want := []string{"Azure Functions"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("names = %v, want %v", got.Names(), want)
	}

	got = Scorer{Mode: ScoringStrict}.Select(entries, f, "", Options{MinScore: 2, TopN: 10})
	if want := []string{"Azure Functions", "Azure Monitor"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("names = %v, want %v", got.Names(), want)
	}
}

func TestSelect_SkipsMalformedEntries(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "", Category: "Analytics"},
		{Name: "Analytics Thing", Category: "  "},
		{Name: "Power BI", Category: "Analytics"},
	}
	got := Scorer{}.Select(entries, features("analytics", "thing"), "", Options{MinScore: 1, TopN: 10})
	if want := []string{"Power BI"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("names = %v, want %v", got.Names(), want)
	}
}

func TestSelect_LengthBounds(t *testing.T) {
	f := Extract(Request{UseCase: "azure analytics storage iot functions monitoring security"})
	s := Scorer{}
	entries := testCatalog()

	eligible := 0
	for _, e := range entries {
		if s.Score(e, f, "") >= 2 {
			eligible++
		}
	}

	for _, topN := range []int{1, 3, 5, 50} {
		got := s.Select(entries, f, "", Options{MinScore: 2, TopN: topN})
		if len(got) > topN {
			t.Errorf("topN=%d: len = %d exceeds topN", topN, len(got))
		}
		if len(got) > eligible {
			t.Errorf("topN=%d: len = %d exceeds eligible %d", topN, len(got), eligible)
		}
		assertRanked(t, got)
	}
}

func TestNormalizeOptions(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{name: "defaults kept", in: DefaultOptions(), want: Options{MinScore: 3, TopN: 8}},
		{name: "zero min score floors to 1", in: Options{MinScore: 0, TopN: 5}, want: Options{MinScore: 1, TopN: 5}},
		{name: "zero topN uses default", in: Options{MinScore: 2, TopN: 0}, want: Options{MinScore: 2, TopN: DefaultTopN}},
		{name: "topN capped", in: Options{MinScore: 2, TopN: 1000}, want: Options{MinScore: 2, TopN: MaxTopN}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeOptions(tt.in); got != tt.want {
				t.Errorf("normalizeOptions(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func testCatalog() []catalog.Entry {
	return []catalog.Entry{
		{Name: "Azure IoT Hub", Category: "IoT"},
		{Name: "Azure Event Grid", Category: "Integration"},
		{Name: "Azure Functions", Category: "Compute"},
		{Name: "Azure Cosmos DB", Category: "Databases"},
		{Name: "Azure Blob Storage", Category: "Storage"},
		{Name: "Azure Data Lake Storage", Category: "Storage"},
		{Name: "Azure Stream Analytics", Category: "Analytics"},
		{Name: "Power BI", Category: "Analytics"},
		{Name: "Azure Key Vault", Category: "Security"},
		{Name: "Azure Monitor", Category: "Monitoring"},
	}
}
