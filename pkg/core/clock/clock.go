// Package clock supplies the current instant to code that must stay testable.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock, in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Func adapts a plain function.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }
