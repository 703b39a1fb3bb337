package testutil

import (
	"strings"

	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// NewEntry returns a catalog Entry with sensible defaults, suitable for test
// fixtures. Override individual fields with options.
func NewEntry(name, category string, opts ...func(*catalog.Entry)) catalog.Entry {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	e := catalog.Entry{
		Name:     name,
		Category: category,
		DocsURL:  "https://docs.example.com/" + slug,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithPricing sets the entry's pricing URL.
func WithPricing(url string) func(*catalog.Entry) {
	return func(e *catalog.Entry) { e.PricingURL = url }
}

// WithOverview sets the entry's overview, pros and cons.
func WithOverview(overview string, pros, cons []string) func(*catalog.Entry) {
	return func(e *catalog.Entry) {
		e.Overview = overview
		e.Pros = pros
		e.Cons = cons
	}
}

// SmallCatalog returns a fixed catalog spanning several categories.
func SmallCatalog() []catalog.Entry {
	return []catalog.Entry{
		NewEntry("Azure IoT Hub", catalog.CategoryIoT),
		NewEntry("Azure Event Grid", catalog.CategoryIntegration),
		NewEntry("Azure Data Factory", catalog.CategoryIntegration),
		NewEntry("Azure Functions", catalog.CategoryCompute),
		NewEntry("Azure Kubernetes Service (AKS)", catalog.CategoryContainers),
		NewEntry("Azure Cosmos DB", catalog.CategoryDatabases),
		NewEntry("Azure Blob Storage", catalog.CategoryStorage),
		NewEntry("Azure Stream Analytics", catalog.CategoryAnalytics),
		NewEntry("Power BI", catalog.CategoryAnalytics),
		NewEntry("Azure Machine Learning", catalog.CategoryAIML),
		NewEntry("Azure Key Vault", catalog.CategorySecurity),
		NewEntry("Azure Monitor", catalog.CategoryMonitoring),
	}
}
