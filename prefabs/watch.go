package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type ChangeKind int

const (
	ChangeSpec ChangeKind = iota
	ChangeScript
	ChangeLevel
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSpec:
		return "spec"
	case ChangeScript:
		return "script"
	case ChangeLevel:
		return "level"
	default:
		return "unknown"
	}
}

// Change is a settled write to a watched spec, script or level file.
type Change struct {
	Path string
	Kind ChangeKind
}

const debounce = 100 * time.Millisecond

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// run coalesces bursts: a change is sent once its file has been quiet for
// the debounce window, so readers see the last write of a save.
func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]ChangeKind)
	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			pending[event.Name] = kind
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			if !w.flush(pending) {
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default: // drop if nobody is reading
			}
		case <-w.closeCh:
			timer.Stop()
			return
		}
	}
}

// flush sends pending changes in path order and empties the set. It returns
// false if the watcher closed mid-flush.
func (w *Watcher) flush(pending map[string]ChangeKind) bool {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		select {
		case w.Events <- Change{Path: path, Kind: pending[path]}:
		case <-w.closeCh:
			return false
		}
		delete(pending, path)
	}
	return true
}

func classify(path string) (ChangeKind, bool) {
	switch {
	case isSpecFile(path):
		return ChangeSpec, true
	case isScriptFile(path):
		return ChangeScript, true
	case isLevelFile(path):
		return ChangeLevel, true
	}
	return 0, false
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}

func isLevelFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}
