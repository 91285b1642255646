// Package activity turns raw desktop monitoring samples into the rolling
// signals the behavior engine consumes: an activity level derived from
// screen-change magnitude and a window switch rate.
package activity

import "time"

// maxHashDistance is the largest possible perceptual hash distance between
// two consecutive screen captures (a 64 bit hash differs in at most 64 bits).
const maxHashDistance = 64

// Tick is a single monitoring sample: which window was focused, how much the
// screen changed since the previous capture, and when it was taken.
type Tick struct {
	AppName      string
	WindowTitle  string
	HashDistance int
	WasSkipped   bool
	Timestamp    time.Time
}
