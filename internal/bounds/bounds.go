// Package bounds enforces the fixed safety ceilings applied to every
// caller-supplied parameter before it reaches the AWS backend.
package bounds

import "time"

// Safety ceilings. These are deliberately not configurable.
const (
	// MinLookbackMinutes is the smallest allowed lookback window.
	MinLookbackMinutes = 1
	// MaxLookbackMinutes caps the lookback window to keep query cost bounded.
	MaxLookbackMinutes = 60
	// DefaultLookbackMinutes is used when the caller omits the lookback.
	DefaultLookbackMinutes = 15
	// MaxResults caps every result list returned to the agent.
	MaxResults = 20
)

// ClampLookback clamps a requested lookback in minutes to
// [MinLookbackMinutes, MaxLookbackMinutes].
func ClampLookback(minutes int) int {
	if minutes < MinLookbackMinutes {
		return MinLookbackMinutes
	}
	if minutes > MaxLookbackMinutes {
		return MaxLookbackMinutes
	}
	return minutes
}

// ClampLimit clamps a requested result limit to [1, MaxResults].
func ClampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxResults {
		return MaxResults
	}
	return n
}

// Window is a bounded query time range. End is always the construction
// time, Start is End minus the clamped lookback.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a Window ending at now with a clamped lookback.
func NewWindow(now time.Time, minutes int) Window {
	end := now.UTC()
	return Window{
		Start: end.Add(-time.Duration(ClampLookback(minutes)) * time.Minute),
		End:   end,
	}
}

// Minutes returns the window length in whole minutes.
func (w Window) Minutes() int {
	return int(w.End.Sub(w.Start) / time.Minute)
}
