// Package analysis looks for structure in a run's discharge: periodic
// fluctuation of the total flow and the expected transit of each source.
//
//	spec := analysis.DischargeSpectrum(res.Totals(), res.Metadata.Dt)
//	if period, ok := spec.DominantPeriod(); ok {
//	    // the blend pulses every period seconds
//	}
package analysis
