package indicator

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/stretchr/testify/require"
)

func seriesOf(t *testing.T, prices ...float64) types.PriceSeries {
	t.Helper()

	start := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(prices))

	for i, p := range prices {
		bars[i] = types.PriceBar{Time: start.AddDate(0, 0, i), Price: p}
	}

	series, err := types.NewPriceSeries("TEST", bars)
	require.NoError(t, err)

	return series
}

func constant(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}

	return out
}
