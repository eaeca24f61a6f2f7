package geometry

import "math"

// Box3 is an axis-aligned bounding box. The zero value is undefined (empty)
// and merges as the neutral element.
type Box3 struct {
	Min     Vec3 `json:"min"`
	Max     Vec3 `json:"max"`
	Defined bool `json:"defined"`
}

// NewBox3 returns the box spanning the two corners.
func NewBox3(min, max Vec3) Box3 {
	return Box3{Min: min, Max: max, Defined: true}
}

// MergePoint grows the box to include the point.
func (b Box3) MergePoint(p Vec3) Box3 {
	if !b.Defined {
		return Box3{Min: p, Max: p, Defined: true}
	}
	return Box3{
		Min:     Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max:     Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
		Defined: true,
	}
}

// Merge grows the box to include another box.
func (b Box3) Merge(o Box3) Box3 {
	if !o.Defined {
		return b
	}
	return b.MergePoint(o.Min).MergePoint(o.Max)
}

// Center returns the box center, or the origin for an undefined box.
func (b Box3) Center() Vec3 {
	if !b.Defined {
		return Vec3{}
	}
	return b.Min.Add(b.Max).Scaled(0.5)
}

// Size returns the box extents, or zero for an undefined box.
func (b Box3) Size() Vec3 {
	if !b.Defined {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Translated returns the box shifted by d.
func (b Box3) Translated(d Vec3) Box3 {
	if !b.Defined {
		return b
	}
	return Box3{Min: b.Min.Add(d), Max: b.Max.Add(d), Defined: true}
}

// Contains reports whether the point lies inside the box (inclusive).
func (b Box3) Contains(p Vec3) bool {
	return b.Defined &&
		b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y &&
		b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// ContainsBox reports whether the other box lies entirely inside this one.
func (b Box3) ContainsBox(o Box3) bool {
	return o.Defined && b.Contains(o.Min) && b.Contains(o.Max)
}

// Transformed returns the axis-aligned box around the eight transformed
// corners of this box.
func (b Box3) Transformed(t Transform3) Box3 {
	if !b.Defined {
		return b
	}
	var out Box3
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{b.Min.Z, b.Max.Z} {
				out = out.MergePoint(t.Apply(Vec3{x, y, z}))
			}
		}
	}
	return out
}
