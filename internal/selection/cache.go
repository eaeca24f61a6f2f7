package selection

import "github.com/printdeck/printdeck/internal/geometry"

// transformCache is the frozen pre-drag copy of one Transformation plus the
// matrices the transform engine keeps re-reading during a gesture.
type transformCache struct {
	Trans          geometry.Transformation
	RotationMatrix geometry.Mat3
	ScaleMatrix    geometry.Mat3
	MirrorMatrix   geometry.Mat3
	FullMatrix     geometry.Transform3
}

func newTransformCache(t geometry.Transformation) transformCache {
	return transformCache{
		Trans:          t,
		RotationMatrix: t.RotationMatrix(),
		ScaleMatrix:    t.ScaleMatrix(),
		MirrorMatrix:   t.MirrorMatrix(),
		FullMatrix:     t.Matrix(),
	}
}

// volumeCache freezes both transform levels of one arena volume.
type volumeCache struct {
	Volume   transformCache
	Instance transformCache
}

// StartDragging snapshots every arena volume's transforms and the current
// selection center; this is the immutable baseline all transform math of
// the following gesture reads from.
func (s *Selection) StartDragging() {
	if !s.valid {
		return
	}
	s.setCaches()
}

func (s *Selection) setCaches() {
	s.cache = map[int]volumeCache{}
	for i := 0; i < s.volumes.Len(); i++ {
		v := s.volumes.At(i)
		s.cache[i] = volumeCache{
			Volume:   newTransformCache(v.VolumeTrans),
			Instance: newTransformCache(v.InstanceTrans),
		}
	}
	s.draggingCenter = s.BoundingBox().Center()
}
