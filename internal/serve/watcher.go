package serve

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to feature files below a directory. Bursts of
// events are collapsed into one notification on Update; watcher errors are
// delivered on Update as well.
type Watcher struct {
	watcher  *fsnotify.Watcher
	suffix   string
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	onUpdate chan<- error
	Update   <-chan error
}

// WatchDir watches dir and its subdirectories for changes to files ending
// in suffix.
func WatchDir(dir, suffix string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, err
	}

	updateCh := make(chan error, 1)
	w := &Watcher{
		watcher:  fw,
		suffix:   suffix,
		debounce: debounce,
		onUpdate: updateCh,
		Update:   updateCh,
	}
	go w.process()

	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) debounceUpdate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.notify(nil)
	})
}

// notify delivers err without blocking; a pending notification already
// covers this one.
func (w *Watcher) notify(err error) {
	select {
	case w.onUpdate <- err:
	default:
	}
}

func (w *Watcher) process() {
	for {
		select {
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(err)
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	// New directories are watched so features added to them are seen.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(ev.Name); err != nil {
				w.notify(err)
			}
			return
		}
	}
	if !strings.HasSuffix(ev.Name, w.suffix) {
		return
	}
	if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.debounceUpdate()
	}
}
