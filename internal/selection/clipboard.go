package selection

import (
	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/geometry"
)

// Clipboard holds an owned, independent copy of the selected document
// subtrees, tagged with the granularity it was captured at.
type Clipboard struct {
	model document.Model
	mode  Mode
}

// Reset drops the clipboard content.
func (c *Clipboard) Reset() {
	c.model.Objects = nil
}

// Empty reports whether the clipboard holds anything.
func (c *Clipboard) Empty() bool {
	return len(c.model.Objects) == 0
}

// Mode returns the granularity the content was captured at.
func (c *Clipboard) Mode() Mode { return c.mode }

// Objects exposes the captured object copies.
func (c *Clipboard) Objects() []*document.Object { return c.model.Objects }

// IsSLACompliant reports whether the content could be pasted into an SLA
// print: instance granularity, single-part objects, no modifiers.
func (c *Clipboard) IsSLACompliant() bool {
	if c.mode == ModeVolume {
		return false
	}
	for _, obj := range c.model.Objects {
		parts := 0
		for _, vol := range obj.Volumes {
			if vol.IsModifier() {
				return false
			}
			if vol.IsModelPart() {
				parts++
			}
		}
		if parts > 1 {
			return false
		}
	}
	return true
}

// CopyToClipboard captures, per touched object, the object metadata, the
// selected instances, and the volumes selected in the first selected
// instance of that object.
func (s *Selection) CopyToClipboard() {
	if !s.valid {
		return
	}

	s.clipboard.Reset()

	for _, objectIdx := range s.contentObjects() {
		if objectIdx < 0 || objectIdx >= len(s.model.Objects) {
			continue
		}
		src := s.model.Objects[objectIdx]

		dst := src.Clone()
		dst.Instances = nil
		dst.Volumes = nil

		instanceIdxs := sortedKeys(s.content[objectIdx])
		for _, instanceIdx := range instanceIdxs {
			if instanceIdx >= 0 && instanceIdx < len(src.Instances) {
				dst.Instances = append(dst.Instances, src.Instances[instanceIdx].Clone())
			}
		}

		firstInstance := instanceIdxs[0]
		for _, i := range s.sorted() {
			v := s.volumes.At(i)
			if v.ObjectIdx != objectIdx || v.InstanceIdx != firstInstance {
				continue
			}
			if v.VolumeIdx >= 0 && v.VolumeIdx < len(src.Volumes) {
				dst.Volumes = append(dst.Volumes, src.Volumes[v.VolumeIdx].Clone())
			}
		}

		s.clipboard.model.Objects = append(s.clipboard.model.Objects, dst)
	}

	s.clipboard.mode = s.mode
}

// PasteFromClipboard inserts the clipboard content back into the document.
// Volume-granularity content needs a single destination instance; instance
// granularity pastes whole objects and requires Instance mode.
func (s *Selection) PasteFromClipboard() {
	if !s.valid || s.clipboard.Empty() {
		return
	}

	switch s.clipboard.mode {
	case ModeVolume:
		if s.IsFromSingleInstance() {
			s.pasteVolumesFromClipboard()
		}
	case ModeInstance:
		if s.mode == ModeInstance {
			s.pasteObjectsFromClipboard()
		}
	}
}

func (s *Selection) pasteVolumesFromClipboard() {
	dstObjectIdx := s.ObjectIdx()
	if dstObjectIdx < 0 || dstObjectIdx >= len(s.model.Objects) {
		return
	}
	dstObject := s.model.Objects[dstObjectIdx]

	dstInstanceIdx := s.InstanceIdx()
	if dstInstanceIdx < 0 || dstInstanceIdx >= len(dstObject.Instances) {
		return
	}
	dstInstance := dstObject.Instances[dstInstanceIdx]

	srcObject := s.clipboard.model.Objects[0]
	if len(srcObject.Instances) == 0 {
		return
	}

	orientParts := geometry.WithRotation | geometry.WithScale | geometry.WithMirror
	srcMatrix := srcObject.Instances[0].Transform.PartialMatrix(orientParts)
	dstMatrix := dstInstance.Transform.PartialMatrix(orientParts)
	fromSameObject := srcObject.InputFile == dstObject.InputFile &&
		srcMatrix.M.IsApprox(dstMatrix.M, geometry.Epsilon)

	dstInstanceBox := dstObject.InstanceBoundingBox(dstInstanceIdx)

	// Pasting across objects keeps the relative layout of a multivolume
	// copy by placing it against the destination instance box as a block.
	var totalBox geometry.Box3
	var pasted []*document.Volume
	for _, srcVolume := range srcObject.Volumes {
		dstVolume := srcVolume.Clone()
		dstObject.Volumes = append(dstObject.Volumes, dstVolume)
		if !fromSameObject {
			totalBox = totalBox.Merge(srcVolume.Bounds.Transformed(srcVolume.Transform.Matrix()))
		}
		pasted = append(pasted, dstVolume)
	}

	if !fromSameObject && totalBox.Defined {
		anchor := geometry.V3(dstInstanceBox.Max.X, dstInstanceBox.Min.Y, dstInstanceBox.Min.Z).
			Add(totalBox.Size().Scaled(0.5)).
			Sub(dstInstance.Transform.Offset)
		target := dstMatrix.M.Inverse().MulVec(anchor)
		for _, v := range pasted {
			v.Transform.Offset = v.Transform.Offset.Sub(totalBox.Center()).Add(target)
		}
	}

	if s.objects != nil {
		s.objects.PasteVolumes(dstObjectIdx, pasted)
	}
}

func (s *Selection) pasteObjectsFromClipboard() {
	// Shift pasted objects a bed-proportional step so they never land
	// exactly on top of the originals.
	var offset float64
	if s.bed != nil {
		offset = s.bed.SizeProportionalToMaxSize(0.05)
	}
	displacement := geometry.V3(offset, offset, 0)

	var objectIdxs []int
	for _, srcObject := range s.clipboard.model.Objects {
		dstObject := srcObject.Clone()
		for _, inst := range dstObject.Instances {
			inst.Transform.Offset = inst.Transform.Offset.Add(displacement)
		}
		s.model.Objects = append(s.model.Objects, dstObject)
		objectIdxs = append(objectIdxs, len(s.model.Objects)-1)
	}

	if s.objects != nil {
		s.objects.PasteObjects(objectIdxs)
	}
}
