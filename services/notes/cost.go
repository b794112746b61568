package notes

import "fmt"

// Pricing holds the completion provider's per-million-token prices.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// DefaultPricing is the gpt-3.5-turbo-0125 price sheet.
func DefaultPricing() Pricing {
	return Pricing{InputPerMillion: 0.50, OutputPerMillion: 1.50}
}

type CostEstimate struct {
	InputTokens  int
	OutputTokens int
	InputCost    float64
	OutputCost   float64
	TotalCost    float64
}

func (c CostEstimate) Formatted() string {
	return fmt.Sprintf("$%.4f", c.TotalCost)
}

// EstimateTokens approximates token count at four characters per token.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Estimate computes the cost of one call given input and worst-case
// output token counts.
func (p Pricing) Estimate(inputTokens, outputTokens int) CostEstimate {
	inputCost := float64(inputTokens) / 1000000 * p.InputPerMillion
	outputCost := float64(outputTokens) / 1000000 * p.OutputPerMillion
	return CostEstimate{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		InputCost:    inputCost,
		OutputCost:   outputCost,
		TotalCost:    inputCost + outputCost,
	}
}
