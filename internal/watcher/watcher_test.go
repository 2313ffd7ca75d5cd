package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu        sync.Mutex
	submitted []string
	withdrawn []string
}

func (r *recorder) submit(path string) {
	r.mu.Lock()
	r.submitted = append(r.submitted, filepath.Base(path))
	r.mu.Unlock()
}

func (r *recorder) withdraw(path string) {
	r.mu.Lock()
	r.withdrawn = append(r.withdrawn, filepath.Base(path))
	r.mu.Unlock()
}

func (r *recorder) snapshot() (submitted, withdrawn []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.submitted...), append([]string(nil), r.withdrawn...)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestInbox_submitsExistingJobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ds.yaml"), "subject: DS")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, ".draft.yaml"), "hidden")

	rec := &recorder{}
	in := NewInbox([]string{dir}, []string{".yaml", ".yml"}, rec.submit, rec.withdraw)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := in.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()

	submitted, _ := rec.snapshot()
	if len(submitted) != 1 || submitted[0] != "ds.yaml" {
		t.Errorf("submitted = %v, want [ds.yaml]", submitted)
	}
}

func TestInbox_debouncedSubmitAndWithdraw(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	in := NewInbox([]string{dir}, []string{".yaml"}, rec.submit, rec.withdraw, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := in.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()

	path := filepath.Join(dir, "os.yaml")
	writeFile(t, path, "subject: OS")
	writeFile(t, path, "subject: Operating Systems")
	writeFile(t, filepath.Join(dir, "skip.txt"), "x")

	waitFor(t, func() bool {
		s, _ := rec.snapshot()
		return contains(s, "os.yaml")
	})
	// Let any trailing events settle; rapid writes collapse into one submission.
	time.Sleep(150 * time.Millisecond)
	submitted, _ := rec.snapshot()
	if len(submitted) != 1 {
		t.Errorf("submitted = %v, want a single debounced submission", submitted)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		_, w := rec.snapshot()
		return contains(w, "os.yaml")
	})
}

func TestInbox_recursiveNewDirectory(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	in := NewInbox([]string{dir}, []string{".yaml"}, rec.submit, nil,
		WithRecursive(true), WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := in.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()

	nested := filepath.Join(dir, "sem5", "internal")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(nested, "cn.yaml"), "subject: CN")

	waitFor(t, func() bool {
		s, _ := rec.snapshot()
		return contains(s, "cn.yaml")
	})
}

func TestInbox_createsMissingDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "jobs", "incoming")
	in := NewInbox([]string{root}, nil, nil, nil)
	if err := in.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()
	if _, err := os.Stat(root); err != nil {
		t.Errorf("inbox directory should exist after Start: %v", err)
	}
	if dirs := in.Directories(); len(dirs) != 1 || dirs[0] != root {
		t.Errorf("Directories() = %v", dirs)
	}
}

func TestInbox_stopIsIdempotent(t *testing.T) {
	in := NewInbox([]string{t.TempDir()}, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := in.Start(ctx); err != nil {
		t.Fatal(err)
	}
	in.Stop()
	cancel()
	in.Stop()
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/jobs/a.yaml", []string{".yaml"}, true},
		{"/jobs/a.YML", []string{"yml"}, true},
		{"/jobs/a.json", []string{".yaml"}, false},
		{"/jobs/a", nil, true},
	}
	for _, tt := range tests {
		if got := matchExtension(tt.path, tt.extensions); got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInbox_isJob(t *testing.T) {
	in := NewInbox(nil, []string{".yaml"}, nil, nil)
	for path, want := range map[string]bool{
		"/jobs/ds.yaml":     true,
		"/jobs/.ds.yaml":    false,
		"/jobs/~ds.yaml":    false,
		"/jobs/ds.yaml~":    false,
		"/jobs/ds.yaml.bak": false,
	} {
		if got := in.isJob(path); got != want {
			t.Errorf("isJob(%q) = %v, want %v", path, got, want)
		}
	}
}
