package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// DataGenerator generates realistic daily price series for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how prices are generated.
type GeneratorConfig struct {
	// Symbol is the instrument symbol (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the beginning of the series
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// MissingEvery marks every n-th price as missing (NaN). Zero disables gaps.
	MissingEvery int
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "TEST",
		StartTime:    time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:     24 * time.Hour,
		Count:        1000,
		InitialPrice: 100.0,
		Volatility:   0.01, // 1% per bar
		Trend:        0.0,  // neutral
		MissingEvery: 0,
	}
}

// GenerateBars creates price bars following a geometric Brownian motion.
func (g *DataGenerator) GenerateBars(config GeneratorConfig) []types.PriceBar {
	bars := make([]types.PriceBar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a standard normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		next := currentPrice * (1 + config.Volatility*z + drift)
		if next <= 0 {
			next = currentPrice * 0.99
		}

		price := roundToDecimals(currentPrice, 4)
		if config.MissingEvery > 0 && i > 0 && i%config.MissingEvery == 0 {
			price = math.NaN()
		}

		bars[i] = types.PriceBar{Time: currentTime, Price: price}

		currentPrice = next
		currentTime = currentTime.Add(config.Interval)
	}

	return bars
}

// Generate creates a validated price series from the configuration.
func (g *DataGenerator) Generate(config GeneratorConfig) types.PriceSeries {
	series, err := types.NewPriceSeries(config.Symbol, g.GenerateBars(config))
	if err != nil {
		// generated bars are increasing in time and positive
		panic(err)
	}

	return series
}

// Generate10K is a convenience function to generate 10,000 daily bars
// with default settings for benchmarking.
func Generate10K(symbol string) types.PriceSeries {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = 10000

	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
