package mocks

import (
	"math"
	"testing"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	series := gen.Generate(config)

	if series.Len() != 100 {
		t.Errorf("expected 100 bars, got %d", series.Len())
	}

	if series.Symbol() != config.Symbol {
		t.Errorf("expected symbol %s, got %s", config.Symbol, series.Symbol())
	}

	if series.At(0).Price != config.InitialPrice {
		t.Errorf("expected first price %f, got %f", config.InitialPrice, series.At(0).Price)
	}

	for i := 1; i < series.Len(); i++ {
		if series.At(i).Price <= 0 {
			t.Errorf("invalid price at index %d: %f", i, series.At(i).Price)
		}

		actualInterval := series.At(i).Time.Sub(series.At(i - 1).Time)
		if actualInterval != config.Interval {
			t.Errorf("unexpected interval at index %d: expected %v, got %v",
				i, config.Interval, actualInterval)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	// Same seed should produce same results
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(42)

	config := DefaultConfig()
	config.Count = 10

	prices1 := gen1.Generate(config).Prices()
	prices2 := gen2.Generate(config).Prices()

	for i := range prices1 {
		if prices1[i] != prices2[i] {
			t.Errorf("data not reproducible at index %d: got %f and %f", i, prices1[i], prices2[i])
		}
	}
}

func TestDataGenerator_Different_Seeds(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	prices1 := NewDataGenerator(42).Generate(config).Prices()
	prices2 := NewDataGenerator(123).Generate(config).Prices()

	different := false

	for i := 1; i < len(prices1); i++ {
		if prices1[i] != prices2[i] {
			different = true

			break
		}
	}

	if !different {
		t.Error("different seeds produced identical data")
	}
}

func TestDataGenerator_MissingEvery(t *testing.T) {
	config := DefaultConfig()
	config.Count = 50
	config.MissingEvery = 10

	series := NewDataGenerator(7).Generate(config)

	missing := 0

	for _, price := range series.Prices() {
		if math.IsNaN(price) {
			missing++
		}
	}

	if missing != 4 {
		t.Errorf("expected 4 missing prices, got %d", missing)
	}

	if series.DropMissing().Len() != 46 {
		t.Errorf("expected 46 bars after dropping gaps, got %d", series.DropMissing().Len())
	}
}

func TestGenerate10K(t *testing.T) {
	series := Generate10K("SPY")

	if series.Len() != 10000 {
		t.Errorf("expected 10000 bars, got %d", series.Len())
	}
}
