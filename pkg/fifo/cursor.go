package fifo

// maybeReleaseCursor runs after a settle at log index incoming that
// dropped the index entry at settledIndex, and decides whether the
// release cursor advances. It is called after every settle, the only
// command that deletes index entries, since settle is the only way
// the smallest surviving key can change.
//
// A shadow stored at key K reflects state as of just before log entry
// K was applied, so once K is the smallest surviving index entry the
// log may discard everything up to and including K-1: replaying the
// shadow followed by the remaining log from K onward reproduces the
// current state exactly.
func (s *State[C]) maybeReleaseCursor(incoming, settledIndex LogIndex) []Effect {
	if s.Idx.Len() == 0 {
		s.FirstEnqueueLogIndex = nil
		return []Effect{
			ReleaseCursorEffect[C]{LogIndex: incoming, Snapshot: s.ShadowCopy()},
		}
	}

	if s.FirstEnqueueLogIndex == nil || settledIndex != *s.FirstEnqueueLogIndex {
		return nil
	}

	smallestKey, snap, _ := s.Idx.Min()
	v := smallestKey
	s.FirstEnqueueLogIndex = &v

	if snap == nil {
		return nil
	}

	return []Effect{
		ReleaseCursorEffect[C]{LogIndex: smallestKey - 1, Snapshot: snap},
	}
}
