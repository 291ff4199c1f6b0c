package srs

import (
	"fmt"
	"math"
)

// UnitType distinguishes linear from angular units.
type UnitType int

// Unit types.
const (
	Linear UnitType = iota
	Angular
)

// Units describes a unit of measure. ToBase converts one unit to meters for
// linear units and to radians for angular units.
type Units struct {
	Name   string
	Abbr   string
	Type   UnitType
	ToBase float64
}

// Common units.
var (
	Meters     = Units{Name: "meters", Abbr: "m", Type: Linear, ToBase: 1}
	Kilometers = Units{Name: "kilometers", Abbr: "km", Type: Linear, ToBase: 1000}
	Feet       = Units{Name: "feet", Abbr: "ft", Type: Linear, ToBase: 0.3048}
	Degrees    = Units{Name: "degrees", Abbr: "°", Type: Angular, ToBase: math.Pi / 180}
	Radians    = Units{Name: "radians", Abbr: "rad", Type: Angular, ToBase: 1}
)

// metersPerEquatorialDegree is the arc length of one degree along the WGS-84 equator.
const metersPerEquatorialDegree = 2 * math.Pi * wgs84SemiMajor / 360

// IsLinear reports whether u measures length.
func (u Units) IsLinear() bool { return u.Type == Linear }

// IsAngular reports whether u measures angle.
func (u Units) IsAngular() bool { return u.Type == Angular }

// String returns the unit name.
func (u Units) String() string { return u.Name }

// Convert converts value from one unit to another of the same type.
// Mixed-type conversions return the value unchanged.
func Convert(value float64, from, to Units) float64 {
	if from.Type != to.Type || from == to {
		return value
	}
	return value * from.ToBase / to.ToBase
}

// Distance is a value paired with its units.
type Distance struct {
	Value float64
	Units Units
}

// NewDistance creates a Distance.
func NewDistance(value float64, units Units) Distance {
	return Distance{Value: value, Units: units}
}

// As converts the distance to the given units of the same type.
func (d Distance) As(u Units) float64 {
	return Convert(d.Value, d.Units, u)
}

// AsDistance converts the distance to linear units. Angular distances are
// measured along the parallel at refLatDeg, so the result shrinks with
// cos(latitude); linear distances ignore the latitude.
func (d Distance) AsDistance(u Units, refLatDeg float64) float64 {
	if d.Units.IsLinear() {
		if u.IsLinear() {
			return d.As(u)
		}
		return d.Value
	}
	if u.IsAngular() {
		return d.As(u)
	}
	deg := d.As(Degrees)
	meters := deg * metersPerEquatorialDegree * math.Cos(refLatDeg*math.Pi/180)
	return Convert(meters, Meters, u)
}

// String formats the distance with its unit abbreviation.
func (d Distance) String() string {
	return fmt.Sprintf("%g%s", d.Value, d.Units.Abbr)
}
