package api

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/milk9111/tilepath/levels"
	"github.com/milk9111/tilepath/pathfind"
	"github.com/milk9111/tilepath/prefabs"
	"github.com/milk9111/tilepath/system"
)

// Service answers next-waypoint queries against every known level. Each
// level gets its own Finder; queries on one level are serialised by it.
type Service struct {
	mu      sync.RWMutex
	spec    *prefabs.NavigatorSpec
	sources []string
	finders map[string]*pathfind.Finder
	paths   map[string]string
}

// NewService builds finders for the embedded levels plus any extra level
// files given in extra.
func NewService(spec *prefabs.NavigatorSpec, extra ...string) (*Service, error) {
	s := &Service{sources: append(levels.List(), extra...)}
	if err := s.Reload(spec); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds every finder. On error the previous finders stay in place.
func (s *Service) Reload(spec *prefabs.NavigatorSpec) error {
	if spec == nil {
		return fmt.Errorf("api: navigator spec is nil")
	}
	finders := make(map[string]*pathfind.Finder, len(s.sources))
	paths := make(map[string]string, len(s.sources))
	for _, src := range s.sources {
		lvl, err := system.LoadLevel(src)
		if err != nil {
			return err
		}
		_, finder, err := system.BuildFinder(lvl, spec)
		if err != nil {
			return err
		}
		if _, dup := finders[lvl.Name]; dup {
			return fmt.Errorf("api: duplicate level name %q", lvl.Name)
		}
		finders[lvl.Name] = finder
		paths[lvl.Name] = src
	}

	s.mu.Lock()
	s.spec = spec
	s.finders = finders
	s.paths = paths
	s.mu.Unlock()
	log.Printf("api: serving %d levels with navigator %s", len(finders), spec.Name)
	return nil
}

func (s *Service) Finder(level string) (*pathfind.Finder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.finders[level]
	return f, ok
}

func (s *Service) Levels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.finders))
	for name := range s.finders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) Spec() *prefabs.NavigatorSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

// Simulate starts a fresh simulation of level with the current spec.
func (s *Service) Simulate(level string) (*system.World, bool, error) {
	s.mu.RLock()
	src, ok := s.paths[level]
	spec := s.spec
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	w, err := system.NewWorld(src, spec)
	return w, true, err
}
