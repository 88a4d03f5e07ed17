// Package analysis inspects recorded runs in the frequency domain.
//
// A heading loop that is tuned too softly makes the boat orbit a waypoint
// instead of reaching it. The orbit shows up as a sharp peak in the yaw
// rate spectrum:
//
//	osc, err := analysis.YawOscillation(samples)
//	if err == nil && osc.Amplitude > 0.5 {
//	    // boat is circling
//	}
package analysis
