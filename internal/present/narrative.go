package present

import (
	"fmt"
	"strings"

	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// stage is one sentence of the architecture narrative, emitted when any
// ranked entry's category matches.
type stage struct {
	match    func(category string) bool
	sentence string
}

func categoryIs(names ...string) func(string) bool {
	return func(category string) bool {
		for _, n := range names {
			if strings.EqualFold(category, n) {
				return true
			}
		}
		return false
	}
}

var stages = []stage{
	{
		match:    func(c string) bool { return strings.Contains(strings.ToLower(c), "iot") },
		sentence: "Device data is ingested via IoT services (such as Azure IoT Hub or IoT Central).",
	},
	{
		match:    categoryIs(catalog.CategoryIntegration),
		sentence: "Data and events are integrated and routed using Integration services (e.g., Event Grid, Logic Apps, API Management).",
	},
	{
		match:    categoryIs(catalog.CategoryCompute, catalog.CategoryContainers),
		sentence: "Processing is handled by Compute (Functions, VMs) or Container services (AKS, Container Apps, Container Instances).",
	},
	{
		match:    categoryIs(catalog.CategoryDatabases, catalog.CategoryStorage),
		sentence: "Data is stored in managed Databases or Storage services (SQL, Cosmos DB, Data Lake, Blob Storage).",
	},
	{
		match:    categoryIs(catalog.CategoryAnalytics, catalog.CategoryAIML),
		sentence: "Analytics and AI/ML services provide insights, dashboards, or predictions (e.g., Synapse, Power BI, Cognitive Services).",
	},
	{
		match:    categoryIs(catalog.CategorySecurity),
		sentence: "Security and compliance are enforced using services like Azure Key Vault, Sentinel, or Firewall.",
	},
}

// genericNarrative is used when no stage sentence applies.
const genericNarrative = "The recommended services address your specified requirements."

// Narrative writes a short architecture overview for result. Services are
// listed in rank order. It returns an empty string for an empty result.
func Narrative(useCase string, result recommend.Result) string {
	if len(result) == 0 {
		return ""
	}
	names := result.Names()

	var sentences []string
	for _, s := range stages {
		for i := range result {
			if s.match(result[i].Category) {
				sentences = append(sentences, s.sentence)
				break
			}
		}
	}
	if len(sentences) == 0 {
		sentences = []string{genericNarrative}
	}

	intro := "The architecture brings together these services: " + strings.Join(names, ", ") + "."
	if uc := strings.TrimSpace(useCase); uc != "" {
		intro = fmt.Sprintf("For your use case: *%s*, the architecture brings together these services: %s.",
			uc, strings.Join(names, ", "))
	}
	return intro + "\n\n" + strings.Join(sentences, " ")
}
