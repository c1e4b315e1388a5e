package transport

import "github.com/tessro/deck/internal/core"

// SeekControl is the position slider. Every value change notifies the
// change handler, except writes made through Write, which hold the
// suppression flag for their duration.
type SeekControl struct {
	value      float64
	enabled    bool
	suppressed bool
	onChange   func(float64)
}

// NewSeekControl creates a disabled control that reports user changes to onChange.
func NewSeekControl(onChange func(float64)) *SeekControl {
	return &SeekControl{onChange: onChange}
}

// Set applies a user gesture. It is ignored while the control is disabled.
func (c *SeekControl) Set(v float64) bool {
	if !c.enabled {
		return false
	}
	c.store(v)
	return true
}

// Nudge moves the control by delta, as the arrow keys do.
func (c *SeekControl) Nudge(delta float64) bool {
	return c.Set(c.value + delta)
}

// Write updates the displayed value without it being taken as a seek request.
func (c *SeekControl) Write(v float64) {
	c.suppressed = true
	defer func() { c.suppressed = false }()
	c.store(v)
}

func (c *SeekControl) store(v float64) {
	c.value = core.Clamp01(v)
	if c.suppressed || c.onChange == nil {
		return
	}
	c.onChange(c.value)
}

// SetEnabled sets interactivity and reports whether it changed.
func (c *SeekControl) SetEnabled(enabled bool) bool {
	if c.enabled == enabled {
		return false
	}
	c.enabled = enabled
	return true
}

// Value returns the displayed position in [0, 1].
func (c *SeekControl) Value() float64 {
	return c.value
}

// Enabled reports whether user gestures are accepted.
func (c *SeekControl) Enabled() bool {
	return c.enabled
}
