package chem

import "gonum.org/v1/gonum/stat"

const (
	// DefaultBasicityTarget is the B2 the blend is steered toward.
	DefaultBasicityTarget = 1.1

	feStdLimit        = 2.0
	basicityTolerance = 0.1

	Good = "Good"
	Poor = "Poor"
)

// Quality summarises a chemistry trend for burden control.
type Quality struct {
	AvgFe           float64 `json:"avg_fe_content"`
	FeStd           float64 `json:"fe_std"`
	AvgBasicity     float64 `json:"avg_basicity"`
	BasicityStd     float64 `json:"basicity_std"`
	BasicityTarget  float64 `json:"basicity_target"`
	FeStability     string  `json:"fe_stability"`
	BasicityQuality string  `json:"basicity_quality"`
}

// Assess grades a trend against a basicity target. It returns nil for an
// empty trend. Standard deviations are population values.
func Assess(tr *Trend, target float64) *Quality {
	if tr == nil || tr.Len() == 0 {
		return nil
	}
	q := &Quality{BasicityTarget: target}
	q.AvgFe, q.FeStd = stat.PopMeanStdDev(tr.Fe, nil)
	q.AvgBasicity, q.BasicityStd = stat.PopMeanStdDev(tr.B2, nil)

	q.FeStability = Poor
	if q.FeStd < feStdLimit {
		q.FeStability = Good
	}
	dev := q.AvgBasicity - target
	if dev < 0 {
		dev = -dev
	}
	q.BasicityQuality = Poor
	if dev < basicityTolerance {
		q.BasicityQuality = Good
	}
	return q
}
