// Package migration gives ballpark costs for moving existing data into
// cloud storage.
package migration

import (
	"fmt"
	"strings"
)

// Method is how data is moved.
type Method string

// Supported migration methods.
const (
	MethodOnline  Method = "online"
	MethodOffline Method = "offline"
	MethodOther   Method = "other"
)

// Pricing constants, as published in 2024.
const (
	DataBoxDeviceCost = 250.0 // USD per device, excluding shipping
	DataBoxDeviceTB   = 8.0
	StoragePerGBMonth = 0.0184 // Standard hot blob storage, LRS
	GBPerTB           = 1024.0
)

// PricingCalculatorURL points users at a precise estimate.
const PricingCalculatorURL = "https://azure.microsoft.com/en-us/pricing/calculator/"

// ParseMethod converts user input to a Method. Matching ignores case and
// accepts the longer labels shown in forms, e.g. "Offline (Azure Data Box)".
func ParseMethod(s string) (Method, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, string(MethodOnline)):
		return MethodOnline, nil
	case strings.HasPrefix(v, string(MethodOffline)):
		return MethodOffline, nil
	case strings.HasPrefix(v, string(MethodOther)):
		return MethodOther, nil
	default:
		return "", fmt.Errorf("unknown migration method %q", s)
	}
}

// Label is the human-readable method name.
func (m Method) Label() string {
	switch m {
	case MethodOnline:
		return "Online (AzCopy, Storage Explorer, etc.)"
	case MethodOffline:
		return "Offline (Azure Data Box)"
	default:
		return "Other"
	}
}

// Estimate is a migration and storage cost estimate in USD.
type Estimate struct {
	SizeTB         float64 `json:"size_tb"`
	Method         Method  `json:"method"`
	MigrationCost  float64 `json:"migration_cost"`
	MonthlyStorage float64 `json:"monthly_storage_cost"`
}

// Compute estimates costs for sizeTB terabytes. Offline transfers are priced
// per Data Box capacity; online and other transfers are free. A size <= 0
// yields a zero estimate.
func Compute(sizeTB float64, method Method) Estimate {
	est := Estimate{SizeTB: sizeTB, Method: method}
	if sizeTB <= 0 {
		est.SizeTB = 0
		return est
	}
	if method == MethodOffline {
		est.MigrationCost = sizeTB * DataBoxDeviceCost / DataBoxDeviceTB
	}
	est.MonthlyStorage = sizeTB * GBPerTB * StoragePerGBMonth
	return est
}

// Zero reports whether the estimate carries no costs.
func (e Estimate) Zero() bool {
	return e.SizeTB == 0
}
