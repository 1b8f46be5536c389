package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/achilleasa/aovtest/frame"
)

// A Metric aggregates per-channel differences into a single scalar.
type Metric uint8

const (
	// Mean absolute difference over all W*H*3 values.
	MAE Metric = iota

	// Mean squared difference.
	MSE

	// Square root of MSE; same unit as the pixel values.
	RMSE

	// Largest absolute difference of any single value.
	MaxAbs
)

func (m Metric) String() string {
	switch m {
	case MAE:
		return "mae"
	case MSE:
		return "mse"
	case RMSE:
		return "rmse"
	case MaxAbs:
		return "max"
	}
	return fmt.Sprintf("Metric(%d)", uint8(m))
}

// Parse a metric name.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "mae":
		return MAE, nil
	case "mse":
		return MSE, nil
	case "rmse":
		return RMSE, nil
	case "max", "maxabs":
		return MaxAbs, nil
	}
	return MAE, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// Evaluate the metric over two images of equal size.
func (m Metric) eval(out, ref *frame.Image) (float64, error) {
	var sum, peak float64
	for i := range out.Pix {
		for c := 0; c < 3; c++ {
			d := channelDiff(out.Pix[i][c], ref.Pix[i][c])
			switch m {
			case MAE:
				sum += d
			case MSE, RMSE:
				sum += d * d
			case MaxAbs:
				peak = math.Max(peak, d)
			default:
				return 0, fmt.Errorf("%w: %d", ErrUnknownMetric, m)
			}
		}
	}

	n := float64(len(out.Pix) * 3)
	switch m {
	case MAE, MSE:
		return sum / n, nil
	case RMSE:
		return math.Sqrt(sum / n), nil
	}
	return peak, nil
}

// Absolute difference of two channel values. Identical non-finite values
// (NaN and NaN, or Inf of the same sign) are considered equal; a non-finite
// value against anything else differs by +Inf.
func channelDiff(a, b float32) float64 {
	fa, fb := float64(a), float64(b)
	aNaN, bNaN := math.IsNaN(fa), math.IsNaN(fb)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN || bNaN:
		return math.Inf(1)
	case math.IsInf(fa, 0) || math.IsInf(fb, 0):
		if fa == fb {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(fa - fb)
}
