package selection

// updateType rebuilds the content map and reclassifies the selection. It is
// a total function of the index set, the arena and the document; it also
// forces Instance mode whenever the membership composes to whole instances
// or objects, and refreshes the disabled flag on every arena volume.
func (s *Selection) updateType() {
	s.content = map[int]map[int]struct{}{}
	s.typ = TypeMixed

	for _, i := range s.sorted() {
		v := s.volumes.At(i)
		instances, ok := s.content[v.ObjectIdx]
		if !ok {
			instances = map[int]struct{}{}
			s.content[v.ObjectIdx] = instances
		}
		instances[v.InstanceIdx] = struct{}{}
	}

	requiresDisable := false

	switch {
	case !s.valid:
		s.typ = TypeInvalid
	case len(s.list) == 0:
		s.typ = TypeEmpty
	case len(s.list) == 1:
		first := s.volumes.At(s.sorted()[0])
		switch {
		case first.WipeTower:
			s.typ = TypeWipeTower
		case first.Modifier:
			s.typ = TypeSingleModifier
			requiresDisable = true
		default:
			obj := s.model.Objects[first.ObjectIdx]
			volumesCount := len(obj.Volumes)
			instancesCount := len(obj.Instances)
			switch {
			case volumesCount*instancesCount == 1:
				s.typ = TypeSingleFullObject
				s.mode = ModeInstance
			case volumesCount == 1: // instancesCount > 1
				s.typ = TypeSingleFullInstance
				s.mode = ModeInstance
			default:
				s.typ = TypeSingleVolume
				requiresDisable = true
			}
		}
	default:
		// Auxiliary volumes (negative volume index) count towards full
		// coverage but are not document volumes.
		auxCount := 0
		for i := range s.list {
			if s.volumes.At(i).VolumeIdx < 0 {
				auxCount++
			}
		}

		if objectIdx := s.singleContentObject(); len(s.content) == 1 &&
			objectIdx >= 0 && objectIdx < len(s.model.Objects) {
			obj := s.model.Objects[objectIdx]
			volumesCount := len(obj.Volumes)
			instancesCount := len(obj.Instances)
			selectedInstances := len(s.content[objectIdx])
			switch {
			case volumesCount*instancesCount+auxCount == len(s.list):
				s.typ = TypeSingleFullObject
				s.mode = ModeInstance
			case selectedInstances == 1:
				if volumesCount+auxCount == len(s.list) {
					s.typ = TypeSingleFullInstance
					s.mode = ModeInstance
				} else {
					modifiers := 0
					for i := range s.list {
						if s.volumes.At(i).Modifier {
							modifiers++
						}
					}
					if modifiers == 0 {
						s.typ = TypeMultipleVolume
					} else if modifiers == len(s.list) {
						s.typ = TypeMultipleModifier
					}
					requiresDisable = true
				}
			case selectedInstances > 1 && selectedInstances*volumesCount+auxCount == len(s.list):
				s.typ = TypeMultipleFullInstance
				s.mode = ModeInstance
			}
		} else {
			covered := 0
			for objectIdx := range s.content {
				if objectIdx < 0 || objectIdx >= len(s.model.Objects) {
					continue
				}
				obj := s.model.Objects[objectIdx]
				covered += len(obj.Volumes) * len(obj.Instances)
			}
			if covered+auxCount == len(s.list) {
				s.typ = TypeMultipleFullObject
				s.mode = ModeInstance
			}
		}
	}

	if s.volumes != nil {
		objectIdx := s.ObjectIdx()
		instanceIdx := s.InstanceIdx()
		for _, v := range s.volumes.Volumes {
			v.Disabled = requiresDisable && (v.ObjectIdx != objectIdx || v.InstanceIdx != instanceIdx)
		}
	}
}

func (s *Selection) singleContentObject() int {
	for objectIdx := range s.content {
		return objectIdx
	}
	return -1
}
