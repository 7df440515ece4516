// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

// Package clock abstracts the time source used by domain services.
//
// Year validation and publication timestamps must be evaluated against the
// server's clock at request time; injecting [Clock] keeps that rule testable.
package clock

import "time"

// Clock supplies the current time to domain services.
type Clock interface {
	Now() time.Time
}

// System is the production [Clock] backed by the OS clock.
type System struct{}

// Now returns the current wall-clock time.
func (System) Now() time.Time { return time.Now() }

// Fixed is a [Clock] frozen at a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

// Now returns the frozen instant.
func (f Fixed) Now() time.Time { return f.Instant }
