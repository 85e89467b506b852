// Package watch implements the -watch CLI mode: re-running the pipeline
// whenever the single input file changes on disk. Adapted from the
// teacher's FSNotifyWatcher (originally internal/runtime/vfs), re-homed
// from a general virtual-filesystem watcher onto one file's write events
// (SPEC_FULL.md §3).
package watch

import (
	"github.com/fsnotify/fsnotify"
)

// Op mirrors fsnotify's bitflag operations so callers outside this
// package never import fsnotify directly.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func fromFsnotify(op fsnotify.Op) Op {
	var out Op

	if op&fsnotify.Create != 0 {
		out |= OpCreate
	}

	if op&fsnotify.Write != 0 {
		out |= OpWrite
	}

	if op&fsnotify.Remove != 0 {
		out |= OpRemove
	}

	if op&fsnotify.Rename != 0 {
		out |= OpRename
	}

	if op&fsnotify.Chmod != 0 {
		out |= OpChmod
	}

	return out
}

// Event is one filesystem notification for the watched path.
type Event struct {
	Path string
	Op   Op
}

// FileWatcher watches a single path and republishes every event for it on
// Events, translating fsnotify's raw Op bitflags the way the teacher's vfs
// watcher did, but scoped to one file rather than a whole tree. It does not
// filter by operation; ShouldRerun does that for the caller.
type FileWatcher struct {
	inner  *fsnotify.Watcher
	Events chan Event
	Errors chan error
	done   chan struct{}
}

// New starts watching path and returns a FileWatcher whose Events channel
// receives a translated Event for every change fsnotify reports. Call Close to
// stop the background goroutine and release the underlying watcher.
func New(path string) (*FileWatcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := inner.Add(path); err != nil {
		inner.Close()
		return nil, err
	}

	w := &FileWatcher{
		inner:  inner,
		Events: make(chan Event, 8),
		Errors: make(chan error, 8),
		done:   make(chan struct{}),
	}

	go w.loop()

	return w, nil
}

func (w *FileWatcher) loop() {
	for {
		select {
		case ev, ok := <-w.inner.Events:
			if !ok {
				return
			}

			w.Events <- Event{Path: ev.Name, Op: fromFsnotify(ev.Op)}
		case err, ok := <-w.inner.Errors:
			if !ok {
				return
			}

			w.Errors <- err
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher's background goroutine and releases its handle.
func (w *FileWatcher) Close() error {
	close(w.done)
	return w.inner.Close()
}

// ShouldRerun reports whether ev's operation should trigger a pipeline
// re-run: content changes and the create-after-editor-rewrite pattern, but
// not bare permission changes.
func ShouldRerun(ev Event) bool {
	return ev.Op&(OpWrite|OpCreate|OpRename) != 0
}
