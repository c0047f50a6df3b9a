package objects

import (
	"time"

	"github.com/spaghettifunk/gamebase/engine/serial"
)

type ChangeFunc int32

const (
	Linear ChangeFunc = iota
	EaseIn
	EaseOut
)

// SmoothChange animates a property from one value to another.
type SmoothChange struct {
	Property string
	From     float64
	To       float64
	Duration time.Duration
	Repeats  uint64
	Func     ChangeFunc
}

// Value returns the animated value at elapsed time t.
func (c *SmoothChange) Value(t time.Duration) float64 {
	if c.Duration <= 0 || t >= c.Duration {
		return c.To
	}
	if t <= 0 {
		return c.From
	}
	k := float64(t) / float64(c.Duration)
	switch c.Func {
	case EaseIn:
		k *= k
	case EaseOut:
		k = 1 - (1-k)*(1-k)
	}
	return c.From + (c.To-c.From)*k
}

func (c *SmoothChange) Serialize(s *serial.Serializer) {
	s.String("property", c.Property).
		Double("from", c.From).
		Double("to", c.To).
		Int64("duration", int64(c.Duration)).
		UInt64("repeats", c.Repeats)
	serial.WriteEnum(s, "func", c.Func)
}

func deserializeSmoothChange(d *serial.Deserializer) (*SmoothChange, error) {
	c := &SmoothChange{
		Property: d.String("property"),
		From:     d.Double("from"),
		To:       d.Double("to"),
		Duration: time.Duration(d.Int64("duration")),
		Repeats:  d.UInt64("repeats"),
		Func:     serial.ReadEnum[ChangeFunc](d, "func"),
	}
	return c, d.Err()
}
