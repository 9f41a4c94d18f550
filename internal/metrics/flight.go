// Package metrics provides observers computed over a flight's retained
// samples.
package metrics

import (
	"math"

	"github.com/balsimlab/balsim/internal/dynamo"
	"github.com/balsimlab/balsim/internal/physics"
)

// Range tracks the furthest downrange position reached.
type Range struct {
	maxX float64
}

func NewRange() *Range { return &Range{} }

func (r *Range) Name() string { return "range" }

func (r *Range) Observe(x dynamo.State, t float64) {
	r.maxX = math.Max(r.maxX, x[physics.PosX])
}

func (r *Range) Value() float64 { return r.maxX }
func (r *Range) Reset()         { r.maxX = 0 }

// Apex tracks the maximum altitude reached.
type Apex struct {
	maxY float64
}

func NewApex() *Apex { return &Apex{} }

func (a *Apex) Name() string { return "apex" }

func (a *Apex) Observe(x dynamo.State, t float64) {
	a.maxY = math.Max(a.maxY, x[physics.PosY])
}

func (a *Apex) Value() float64 { return a.maxY }
func (a *Apex) Reset()         { a.maxY = 0 }

// FlightTime records the timestamp of the last retained sample.
type FlightTime struct {
	last float64
}

func NewFlightTime() *FlightTime { return &FlightTime{} }

func (f *FlightTime) Name() string { return "flight_time" }

func (f *FlightTime) Observe(x dynamo.State, t float64) {
	f.last = t
}

func (f *FlightTime) Value() float64 { return f.last }
func (f *FlightTime) Reset()         { f.last = 0 }

// ImpactSpeed records the speed at the last retained sample.
type ImpactSpeed struct {
	speed float64
}

func NewImpactSpeed() *ImpactSpeed { return &ImpactSpeed{} }

func (s *ImpactSpeed) Name() string { return "impact_speed" }

func (s *ImpactSpeed) Observe(x dynamo.State, t float64) {
	s.speed = math.Hypot(x[physics.VelX], x[physics.VelY])
}

func (s *ImpactSpeed) Value() float64 { return s.speed }
func (s *ImpactSpeed) Reset()         { s.speed = 0 }
