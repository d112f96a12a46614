package pathfind

// exploredSet is the closed set. Membership is an epoch stamp per tile, so
// clearing between queries does not touch the table.
type exploredSet struct {
	stamps []uint32
	epoch  uint32
	count  int
}

func newExploredSet(size int) *exploredSet {
	return &exploredSet{stamps: make([]uint32, size), epoch: 1}
}

func (s *exploredSet) insert(idx int) {
	if s.stamps[idx] == s.epoch {
		return
	}
	s.stamps[idx] = s.epoch
	s.count++
}

// remove takes idx back out of the set when a cheaper route re-opens it.
func (s *exploredSet) remove(idx int) {
	if s.stamps[idx] != s.epoch {
		return
	}
	s.stamps[idx] = 0
	s.count--
}

func (s *exploredSet) contains(idx int) bool {
	return s.stamps[idx] == s.epoch
}

func (s *exploredSet) size() int {
	return s.count
}

func (s *exploredSet) clear() {
	s.epoch++
	if s.epoch == 0 {
		for i := range s.stamps {
			s.stamps[i] = 0
		}
		s.epoch = 1
	}
	s.count = 0
}
