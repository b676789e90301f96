package loader

import (
	"path/filepath"

	"github.com/cadenzr/go-timeline-engine/internal/util"
	"github.com/fsnotify/fsnotify"
)

// DefinitionWatcher signals when a timeline definition file changes on
// disk, so a running player can hot-reload it. Editors commonly replace
// files via rename, so the watch is placed on the directory and filtered
// to the target name.
type DefinitionWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan string
	done    chan struct{}
}

// NewDefinitionWatcher starts watching the given definition file.
func NewDefinitionWatcher(path string) (*DefinitionWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	dw := &DefinitionWatcher{
		watcher: watcher,
		path:    filepath.Clean(path),
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}
	go dw.processEvents()
	return dw, nil
}

// Changes delivers the definition path once per observed modification.
func (dw *DefinitionWatcher) Changes() <-chan string {
	return dw.changes
}

// Close stops the watcher and releases the inotify handle.
func (dw *DefinitionWatcher) Close() error {
	close(dw.done)
	return dw.watcher.Close()
}

func (dw *DefinitionWatcher) processEvents() {
	for {
		select {
		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != dw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			util.LogDebugf("definition changed: %s (%s)", ev.Name, ev.Op)
			select {
			case dw.changes <- dw.path:
			default:
				// A pending reload already covers this change.
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			util.LogWarnf("definition watcher: %v", err)
		case <-dw.done:
			return
		}
	}
}
