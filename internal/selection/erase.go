package selection

import "sort"

// Erase deletes the selected content from the document through the object
// list collaborator, always at the coarsest granularity that does not leave
// an empty parent behind: a fully covered object goes as a whole, a fully
// covered instance likewise, and only leftovers go volume by volume.
func (s *Selection) Erase() {
	if !s.valid || s.objects == nil || s.IsEmpty() {
		return
	}

	switch {
	case s.IsSingleFullObject():
		s.objects.DeleteItems([]ItemForDelete{{Type: ItemObject, ObjectIdx: s.ObjectIdx()}})

	case s.IsMultipleFullObject():
		items := make([]ItemForDelete, 0, len(s.content))
		for _, objectIdx := range s.contentObjects() {
			items = append(items, ItemForDelete{Type: ItemObject, ObjectIdx: objectIdx})
		}
		s.objects.DeleteItems(items)

	case s.IsMultipleFullInstance():
		var items []ItemForDelete
		for _, objectIdx := range s.contentObjects() {
			for _, instanceIdx := range sortedKeys(s.content[objectIdx]) {
				items = append(items, ItemForDelete{Type: ItemInstance, ObjectIdx: objectIdx, SubIdx: instanceIdx})
			}
		}
		s.objects.DeleteItems(items)

	case s.IsSingleFullInstance():
		s.objects.DeleteItems([]ItemForDelete{{Type: ItemInstance, ObjectIdx: s.ObjectIdx(), SubIdx: s.InstanceIdx()}})

	case s.IsMixed():
		itemsSet := map[ItemForDelete]struct{}{}
		volumesInObj := map[int]int{}

		for _, i := range s.sorted() {
			v := s.volumes.At(i)
			objectIdx := v.ObjectIdx
			if objectIdx < 0 || objectIdx >= len(s.model.Objects) {
				continue
			}
			obj := s.model.Objects[objectIdx]

			if len(obj.Instances) == 1 {
				if len(obj.Volumes) == 1 {
					itemsSet[ItemForDelete{Type: ItemObject, ObjectIdx: objectIdx, SubIdx: -1}] = struct{}{}
				} else {
					itemsSet[ItemForDelete{Type: ItemVolume, ObjectIdx: objectIdx, SubIdx: v.VolumeIdx}] = struct{}{}
					volumesInObj[objectIdx]++
				}
				continue
			}

			if instances, ok := s.content[objectIdx]; ok {
				if _, selected := instances[v.InstanceIdx]; selected {
					if len(instances) == len(obj.Instances) {
						itemsSet[ItemForDelete{Type: ItemObject, ObjectIdx: objectIdx, SubIdx: -1}] = struct{}{}
					} else {
						itemsSet[ItemForDelete{Type: ItemInstance, ObjectIdx: objectIdx, SubIdx: v.InstanceIdx}] = struct{}{}
					}
				}
			}
		}

		// Escalate per-volume deletes that would cover every volume of an
		// object into one whole-object delete.
		var items []ItemForDelete
		for _, it := range sortedItems(itemsSet) {
			if it.Type == ItemVolume {
				count := volumesInObj[it.ObjectIdx]
				if count == len(s.model.Objects[it.ObjectIdx].Volumes) {
					if it.SubIdx == count-1 {
						items = append(items, ItemForDelete{Type: ItemObject, ObjectIdx: it.ObjectIdx})
					}
					continue
				}
			}
			items = append(items, it)
		}
		s.objects.DeleteItems(items)

	default:
		// Document volumes only; auxiliary meshes are not list-managed.
		seen := map[ItemForDelete]struct{}{}
		for _, i := range s.sorted() {
			v := s.volumes.At(i)
			if v.VolumeIdx >= 0 {
				seen[ItemForDelete{Type: ItemVolume, ObjectIdx: v.ObjectIdx, SubIdx: v.VolumeIdx}] = struct{}{}
			}
		}
		s.objects.DeleteItems(sortedItems(seen))
	}
}

func (s *Selection) contentObjects() []int {
	out := make([]int, 0, len(s.content))
	for objectIdx := range s.content {
		out = append(out, objectIdx)
	}
	sort.Ints(out)
	return out
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func sortedItems(set map[ItemForDelete]struct{}) []ItemForDelete {
	out := make([]ItemForDelete, 0, len(set))
	for it := range set {
		out = append(out, it)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Type != out[b].Type {
			return out[a].Type < out[b].Type
		}
		if out[a].ObjectIdx != out[b].ObjectIdx {
			return out[a].ObjectIdx < out[b].ObjectIdx
		}
		return out[a].SubIdx < out[b].SubIdx
	})
	return out
}
