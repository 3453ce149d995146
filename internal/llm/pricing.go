package llm

import (
	"strings"

	"github.com/jonathan/docgen/internal/types"
)

// modelPricing holds USD prices per one million tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// pricingTable maps model name prefixes to prices. Longest matching prefix
// wins, so versioned model names resolve to their family.
var pricingTable = map[string]modelPricing{
	"gemini-2.5-flash-lite": {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.5-flash":      {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-pro":        {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"claude-sonnet-4":       {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-haiku-3-5":      {InputPerMillion: 0.80, OutputPerMillion: 4.00},
}

// lookupPricing finds the pricing entry for a model name. Unknown models
// price at zero rather than failing a pipeline over bookkeeping.
func lookupPricing(model string) modelPricing {
	best := ""
	for prefix := range pricingTable {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return modelPricing{}
	}
	return pricingTable[best]
}

// CostUSD computes the dollar cost of a call against a model's price table.
func CostUSD(model string, usage types.TokenUsage) float64 {
	p := lookupPricing(model)
	in := float64(usage.InputTokens) / 1e6 * p.InputPerMillion
	out := float64(usage.OutputTokens) / 1e6 * p.OutputPerMillion
	return in + out
}
