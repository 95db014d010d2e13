// Package watch reports changes to source files and re-lexes them with an
// incremental lexer.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op indicates a change operation in the filesystem.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	var parts []string
	for _, n := range []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	} {
		if op&n.op != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Gone reports whether the file no longer exists under its name.
func (op Op) Gone() bool {
	return op&(OpRemove|OpRename) != 0
}

// Event describes a change to one file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// JavaFiles accepts the files a Java lexer is interested in.
func JavaFiles(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".java")
}

// Watcher delivers OS-native change notifications for the files accepted
// by its filter.
type Watcher struct {
	w      *fsnotify.Watcher
	filter func(string) bool
	evC    chan Event
	erC    chan error

	// done is closed by Close; exited is closed when loop returns.
	done      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
}

// New creates a watcher. A nil filter accepts every file.
func New(filter func(string) bool) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{
		w:      w,
		filter: filter,
		evC:    make(chan Event, 128),
		erC:    make(chan error, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.exited)
	defer close(fw.evC)
	defer close(fw.erC)

	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if fw.filter != nil && !fw.filter(ev.Name) {
				continue
			}
			// Nobody may be reading any more; Close must still stop the loop.
			select {
			case fw.evC <- Event{Path: ev.Name, Op: translate(ev.Op), Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
				// An error is already pending; drop this one.
			}
		}
	}
}

func translate(fop fsnotify.Op) Op {
	var op Op
	if fop&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if fop&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if fop&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if fop&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if fop&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return op
}

func (fw *Watcher) Add(name string) error { return fw.w.Add(name) }

// Close stops the watcher. Events not yet consumed are discarded. It is
// safe to call Close more than once.
func (fw *Watcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// Run calls handle for every event until ctx is done or the watcher is
// closed. Errors from the watcher and from handle are passed to onError;
// they do not stop the loop.
func (fw *Watcher) Run(ctx context.Context, handle func(Event) error, onError func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.evC:
			if !ok {
				return nil
			}
			if err := handle(ev); err != nil && onError != nil {
				onError(err)
			}
		case err, ok := <-fw.erC:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
