package progress

// Direction classifies a slope.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

// Trend is a slope-classified direction over a time-ordered series.
type Trend struct {
	Direction Direction `json:"direction"`
	Slope     float64   `json:"slope"`
}

// ComputeTrend fits an ordinary-least-squares slope to the series
// against its index order and classifies it. Fewer than two points is
// stable with zero slope; there is nothing to regress.
func ComputeTrend(series []float64, epsilon float64) Trend {
	n := len(series)
	if n < 2 {
		return Trend{Direction: DirectionStable}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return Trend{Direction: DirectionStable}
	}
	slope := (fn*sumXY - sumX*sumY) / denom

	t := Trend{Slope: slope}
	switch {
	case slope > epsilon:
		t.Direction = DirectionImproving
	case slope < -epsilon:
		t.Direction = DirectionDeclining
	default:
		t.Direction = DirectionStable
	}
	return t
}
