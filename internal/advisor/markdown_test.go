package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HerbHall/cloudadvisor/internal/diagram"
	"github.com/HerbHall/cloudadvisor/internal/migration"
	"github.com/HerbHall/cloudadvisor/internal/present"
	"github.com/HerbHall/cloudadvisor/internal/recommend"
)

func sampleReport() *Report {
	return &Report{
		Request: recommend.Request{
			UseCase:      "IoT telemetry",
			Compliance:   "GDPR",
			Capabilities: map[string]bool{"Serverless": true, "AI/ML": true, "DevOps": false},
		},
		Services: []present.Row{
			{
				Score:      9,
				Service:    "Azure IoT Hub",
				Category:   "IoT",
				DocsURL:    "https://docs.example.com/iot-hub",
				PricingURL: "https://pricing.example.com/iot-hub",
				Overview:   "Bi-directional | device messaging.",
				Pros:       []string{"Scales", "Secure"},
				Alternatives: []present.Link{
					{Name: "IoT Central", URL: "https://docs.example.com/iot-central"},
				},
			},
			{
				Score:    6,
				Service:  "Azure Functions",
				Category: "Compute",
				DocsURL:  "https://docs.example.com/functions",
				Overview: "Event-driven compute.",
			},
		},
		Narrative: "For your use case: *IoT telemetry*, the architecture brings together these services.",
		Diagram:   &diagram.Diagram{Mermaid: "flowchart LR\n    N0[\"Azure IoT Hub\"]"},
	}
}

func TestReport_Markdown(t *testing.T) {
	md := sampleReport().Markdown()

	for _, want := range []string{
		"# Cloud Solution Recommendation",
		"**Use case:** IoT telemetry",
		"**Security/compliance:** GDPR",
		"**Capabilities:** AI/ML, Serverless\n",
		"## Solution Architecture Overview",
		"| Score | Service | Category | Overview | Pros | Cons | Alternatives | Docs | Pricing |",
		"| 9 | [Azure IoT Hub](https://docs.example.com/iot-hub) | IoT | Bi-directional \\| device messaging. | Scales; Secure | - | [IoT Central](https://docs.example.com/iot-central) | [Docs](https://docs.example.com/iot-hub) | [Pricing](https://pricing.example.com/iot-hub) |",
		"| 6 | [Azure Functions](https://docs.example.com/functions) | Compute | Event-driven compute. | - | - | None | [Docs](https://docs.example.com/functions) | - |",
		"```mermaid\nflowchart LR\n    N0[\"Azure IoT Hub\"]\n```",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "Data Migration")
	assert.NotContains(t, md, "DevOps")
}

func TestReport_Condensed(t *testing.T) {
	r := sampleReport()
	r.Services[0].Overview = strings.Repeat("a", 58) + "bcdef"

	md := r.Condensed()
	assert.Contains(t, md, "| "+strings.Repeat("a", 58)+"bc... | Scales, Secure |")
	assert.Contains(t, md, "| Event-driven compute. | - |")
	assert.Contains(t, md, "## Solution Architecture Overview")

	full := r.Markdown()
	assert.Contains(t, full, strings.Repeat("a", 58)+"bcdef")
	assert.Contains(t, full, "Scales; Secure")
}

func TestReport_MarkdownMigration(t *testing.T) {
	r := sampleReport()
	est := migration.Compute(300, migration.MethodOffline)
	r.Migration = &est

	md := r.Markdown()
	assert.Contains(t, md, "## Data Migration and Storage Estimate")
	assert.Contains(t, md, "- **Migration method:** Offline (Azure Data Box)")
	assert.Contains(t, md, "- **Estimated migration cost:** $9,375.00 (using Azure Data Box")
	assert.Contains(t, md, "- **Estimated monthly storage cost:** $5,652.48")

	est = migration.Compute(1, migration.MethodOnline)
	r.Migration = &est
	md = r.Markdown()
	assert.Contains(t, md, "- **Estimated migration cost:** $0 (online ingress")
	assert.Contains(t, md, "- **Estimated monthly storage cost:** $18.84")
}

func TestReport_MarkdownEmpty(t *testing.T) {
	md := (&Report{Request: recommend.Request{UseCase: "nothing"}}).Markdown()
	assert.Contains(t, md, "No relevant services matched")
	assert.False(t, strings.Contains(md, "| Score |"))
	assert.NotContains(t, md, "```mermaid")
}
