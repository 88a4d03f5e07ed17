// Package control provides the scalar feedback loop used by the guidance
// strategies.
//
// [PID] runs one control axis (heading or speed):
//
//	pid := control.NewPID(2.0, 0.1, 0.05)
//	pid.IntegralLimit = 10
//	u := pid.Update(err, dt)
//
// The integral is clamped for anti-windup, the derivative is taken on the
// error signal and suppressed on the first update after construction or
// [PID.Reset]. Gains can be tuned live through GetParams/SetParam.
package control
