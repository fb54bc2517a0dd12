package compound

import (
	"evault/core"
)

// LiquidationLTV the exact ramp interpolation at now, used when judging existing positions
func LiquidationLTV(e *core.LTVEntry, now int64) uint16 {
	if e == nil {
		return 0
	}

	end := e.RampStart + e.RampDuration
	if e.RampDuration <= 0 || now >= end {
		return e.Target
	}

	elapsed := now - e.RampStart
	if elapsed < 0 {
		elapsed = 0
	}

	initial, target := int64(e.Initial), int64(e.Target)
	if initial > target {
		return uint16(initial - (initial-target)*elapsed/e.RampDuration)
	}

	return uint16(initial + (target-initial)*elapsed/e.RampDuration)
}

// BorrowLTV never above target, so that ramp downs bind new borrowing at once
func BorrowLTV(e *core.LTVEntry, now int64) uint16 {
	if e == nil {
		return 0
	}

	ltv := LiquidationLTV(e, now)
	if e.Target < ltv {
		return e.Target
	}

	return ltv
}
