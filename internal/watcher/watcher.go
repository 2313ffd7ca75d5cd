// Package watcher turns directories into job inboxes: dropping or editing a
// job file submits it, deleting or moving it away withdraws it.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Inbox watches job directories and invokes callbacks on job file changes.
type Inbox struct {
	dirs       []string
	extensions []string
	recursive  bool
	debounce   time.Duration
	onSubmit   func(path string)
	onWithdraw func(path string)
	logger     *zap.Logger // optional

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	pending map[string]*time.Timer
	done    chan struct{}
	stop    sync.Once
}

// Option configures an Inbox.
type Option func(*Inbox)

// WithLogger sets a logger for inbox events.
func WithLogger(l *zap.Logger) Option {
	return func(in *Inbox) { in.logger = l }
}

// WithDebounce sets how long a job file must be quiet before it is submitted.
func WithDebounce(d time.Duration) Option {
	return func(in *Inbox) {
		if d > 0 {
			in.debounce = d
		}
	}
}

// WithRecursive also watches subdirectories, including ones created later.
func WithRecursive(recursive bool) Option {
	return func(in *Inbox) { in.recursive = recursive }
}

// NewInbox creates an inbox over dirs. Only files whose extension is in
// extensions are jobs; an empty list accepts every file. Callbacks may be nil.
func NewInbox(dirs, extensions []string, onSubmit, onWithdraw func(path string), opts ...Option) *Inbox {
	in := &Inbox{
		dirs:       dirs,
		extensions: extensions,
		debounce:   defaultDebounce,
		onSubmit:   onSubmit,
		onWithdraw: onWithdraw,
		pending:    make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Start creates missing inbox directories, begins watching, and submits every
// job already present. It returns once watching has begun; events are handled
// until ctx is cancelled or Stop is called.
func (in *Inbox) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range in.dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			_ = fsw.Close()
			return err
		}
		if err := in.watchTree(fsw, dir); err != nil {
			_ = fsw.Close()
			return err
		}
	}
	in.mu.Lock()
	in.fsw = fsw
	in.mu.Unlock()
	if in.logger != nil {
		in.logger.Info("job inbox started", zap.Strings("directories", in.dirs), zap.Strings("extensions", in.extensions))
	}

	for _, dir := range in.dirs {
		in.submitExisting(dir)
	}
	go in.run(ctx, fsw)
	return nil
}

func (in *Inbox) watchTree(fsw *fsnotify.Watcher, dir string) error {
	if !in.recursive {
		return fsw.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		return fsw.Add(path)
	})
}

func (in *Inbox) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			in.Stop()
			return
		case <-in.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			in.handle(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if in.logger != nil {
				in.logger.Warn("job inbox error", zap.Error(err))
			}
		}
	}
}

func (in *Inbox) handle(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	path := ev.Name
	switch {
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if in.recursive {
				if err := in.watchTree(fsw, path); err != nil && in.logger != nil {
					in.logger.Warn("job inbox failed to watch directory", zap.String("path", path), zap.Error(err))
				}
				in.submitExisting(path)
			}
			return
		}
		if in.isJob(path) {
			in.schedule(path)
		}
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		in.cancel(path)
		if in.isJob(path) && in.onWithdraw != nil {
			if in.logger != nil {
				in.logger.Debug("job withdrawn", zap.String("path", path))
			}
			in.onWithdraw(path)
		}
	}
}

// isJob reports whether path names a job file. Hidden files and editor
// swap files are never jobs.
func (in *Inbox) isJob(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, "~") {
		return false
	}
	return matchExtension(path, in.extensions)
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// schedule submits path once it has been quiet for the debounce interval.
func (in *Inbox) schedule(path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.pending[path]; ok {
		t.Stop()
	}
	in.pending[path] = time.AfterFunc(in.debounce, func() {
		in.mu.Lock()
		delete(in.pending, path)
		in.mu.Unlock()
		in.submit(path)
	})
}

func (in *Inbox) cancel(path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.pending[path]; ok {
		t.Stop()
		delete(in.pending, path)
	}
}

func (in *Inbox) submit(path string) {
	if in.logger != nil {
		in.logger.Debug("job submitted", zap.String("path", path))
	}
	if in.onSubmit != nil {
		in.onSubmit(path)
	}
}

func (in *Inbox) submitExisting(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && !in.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if in.isJob(path) {
			in.submit(path)
		}
		return nil
	})
}

// Directories returns a copy of the inbox directories.
func (in *Inbox) Directories() []string {
	return append([]string(nil), in.dirs...)
}

// Stop stops watching and drops pending submissions.
func (in *Inbox) Stop() {
	in.stop.Do(func() {
		in.mu.Lock()
		for path, t := range in.pending {
			t.Stop()
			delete(in.pending, path)
		}
		fsw := in.fsw
		in.fsw = nil
		in.mu.Unlock()
		close(in.done)
		if fsw != nil {
			_ = fsw.Close()
		}
	})
}
