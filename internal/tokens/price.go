package tokens

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed token_prices.toml
var bundledPrices []byte

// PriceModel is one model's price per 1000 tokens. Price applies to both
// directions when InputPrice or OutputPrice is unset.
type PriceModel struct {
	Name        string   `toml:"name"`
	Price       *float64 `toml:"price"`
	InputPrice  *float64 `toml:"input_price"`
	OutputPrice *float64 `toml:"output_price"`
}

func (m PriceModel) input() float64  { return firstPrice(m.InputPrice, m.Price) }
func (m PriceModel) output() float64 { return firstPrice(m.OutputPrice, m.Price) }

func firstPrice(prices ...*float64) float64 {
	for _, p := range prices {
		if p != nil {
			return *p
		}
	}
	return 0
}

// Provider groups the models sold by one vendor.
type Provider struct {
	Name   string       `toml:"name"`
	Models []PriceModel `toml:"models"`
}

// PriceTable is the full set of known prices.
type PriceTable struct {
	Providers []Provider `toml:"providers"`
}

// Price is the estimated cost of one request against one model.
type Price struct {
	Provider     string
	Model        string
	InputPrice   float64 // per 1000 tokens
	OutputPrice  float64 // per 1000 tokens
	InputTokens  int
	OutputTokens int
	Total        float64
}

// TotalTokens returns input plus output tokens.
func (p Price) TotalTokens() int {
	return p.InputTokens + p.OutputTokens
}

// LoadPriceTable decodes the price table bundled with the binary.
func LoadPriceTable() (*PriceTable, error) {
	var t PriceTable
	if err := toml.Unmarshal(bundledPrices, &t); err != nil {
		return nil, fmt.Errorf("tokens: decode price table: %w", err)
	}
	return &t, nil
}

// CalculatePrice returns the cost of count tokens at per1000 per 1000 tokens.
func CalculatePrice(count int, per1000 float64) float64 {
	return float64(count) / 1000 * per1000
}

// Calculate estimates the cost of every model in t. Non-empty provider and
// model narrow the result; both compare case-insensitively.
func (t *PriceTable) Calculate(inputTokens, outputTokens int, provider, model string) []Price {
	var out []Price
	for _, p := range t.Providers {
		if provider != "" && !strings.EqualFold(p.Name, provider) {
			continue
		}
		for _, m := range p.Models {
			if model != "" && !strings.EqualFold(m.Name, model) {
				continue
			}
			in, o := m.input(), m.output()
			out = append(out, Price{
				Provider:     p.Name,
				Model:        m.Name,
				InputPrice:   in,
				OutputPrice:  o,
				InputTokens:  inputTokens,
				OutputTokens: outputTokens,
				Total:        CalculatePrice(inputTokens, in) + CalculatePrice(outputTokens, o),
			})
		}
	}
	return out
}

// Prices estimates costs from the bundled price table.
func Prices(inputTokens, outputTokens int, provider, model string) ([]Price, error) {
	t, err := LoadPriceTable()
	if err != nil {
		return nil, err
	}
	return t.Calculate(inputTokens, outputTokens, provider, model), nil
}
