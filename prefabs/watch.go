package prefabs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Quiet is how long the watcher waits after the last file event before it
// reports a batch. Editors typically write a file several times per save.
var Quiet = 150 * time.Millisecond

type ChangeKind int

const (
	SpecChange ChangeKind = iota
	ScriptChange
)

func (k ChangeKind) String() string {
	if k == ScriptChange {
		return "script"
	}
	return "spec"
}

// Change is one spec or script file that was written, created, renamed or
// removed.
type Change struct {
	Name string
	Kind ChangeKind
}

// Watcher reports batches of spec and script changes under a prefab
// directory and its scripts/ subdirectory. Events and Errors are closed once
// the watcher shuts down.
type Watcher struct {
	fsw     *fsnotify.Watcher
	log     logrus.FieldLogger
	Events  chan []Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(log logrus.FieldLogger, root string) (*Watcher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := []string{root}
	if info, err := os.Stat(filepath.Join(root, "scripts")); err == nil && info.IsDir() {
		dirs = append(dirs, filepath.Join(root, "scripts"))
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fsw:     fsw,
		log:     log.WithFields(logrus.Fields{"component": "watcher", "root": root}),
		Events:  make(chan []Change, 4),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	pending := map[string]ChangeKind{}
	quiet := time.NewTimer(Quiet)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			kind, relevant := classify(ev)
			if !relevant {
				continue
			}
			pending[ev.Name] = kind
			quiet.Reset(Quiet)
		case <-quiet.C:
			if len(pending) == 0 {
				continue
			}
			batch := drain(pending)
			w.log.WithField("files", len(batch)).Debug("prefabs changed")
			select {
			case w.Events <- batch:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.log.WithError(err).Warn("dropping watcher error")
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(ev fsnotify.Event) (ChangeKind, bool) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return 0, false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml":
		return SpecChange, true
	case scriptExt:
		return ScriptChange, true
	}
	return 0, false
}

func drain(pending map[string]ChangeKind) []Change {
	batch := make([]Change, 0, len(pending))
	for name, kind := range pending {
		batch = append(batch, Change{Name: name, Kind: kind})
		delete(pending, name)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Name < batch[j].Name })
	return batch
}
