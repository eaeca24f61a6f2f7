package selection

import "github.com/printdeck/printdeck/internal/geometry"

// boxCache memoizes one bounding box behind a dirty flag; every write path
// that can move geometry marks all three caches dirty, a read recomputes at
// most once per query burst.
type boxCache struct {
	box   geometry.Box3
	dirty bool
}

func (s *Selection) setBoundingBoxesDirty() {
	s.box.dirty = true
	s.unscaledBox.dirty = true
	s.scaledBox.dirty = true
}

// BoundingBox returns the world box of the selected volumes.
func (s *Selection) BoundingBox() geometry.Box3 {
	if s.box.dirty {
		s.box.box = geometry.Box3{}
		if s.valid {
			for _, i := range s.sorted() {
				s.box.box = s.box.box.Merge(s.volumes.At(i).TransformedBoundingBox())
			}
		}
		s.box.dirty = false
	}
	return s.box.box
}

// UnscaledInstanceBoundingBox returns the selection box with the scale part
// of the instance transforms left out; modifiers do not contribute.
func (s *Selection) UnscaledInstanceBoundingBox() geometry.Box3 {
	if s.unscaledBox.dirty {
		s.unscaledBox.box = geometry.Box3{}
		if s.valid {
			for _, i := range s.sorted() {
				v := s.volumes.At(i)
				if v.Modifier {
					continue
				}
				inst := v.InstanceTrans.PartialMatrix(
					geometry.WithTranslation | geometry.WithRotation | geometry.WithMirror)
				s.unscaledBox.box = s.unscaledBox.box.Merge(v.BoundsWithInstanceMatrix(inst))
			}
		}
		s.unscaledBox.dirty = false
	}
	return s.unscaledBox.box
}

// ScaledInstanceBoundingBox returns the selection box under the full
// instance transforms; modifiers do not contribute.
func (s *Selection) ScaledInstanceBoundingBox() geometry.Box3 {
	if s.scaledBox.dirty {
		s.scaledBox.box = geometry.Box3{}
		if s.valid {
			for _, i := range s.sorted() {
				v := s.volumes.At(i)
				if v.Modifier {
					continue
				}
				s.scaledBox.box = s.scaledBox.box.Merge(v.BoundsWithInstanceMatrix(v.InstanceTrans.Matrix()))
			}
		}
		s.scaledBox.dirty = false
	}
	return s.scaledBox.box
}
