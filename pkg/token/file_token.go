package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/EmilyShepherd/go-stream/pkg/logging"
)

// FileToken is a TokenProvider for a token which is backed by a file.
// This will lookup the value from the file, and will watch the file for
// changes, and re-read when required.
//
// This is typically used for in-cluster service account tokens, which
// Kubernetes mounts into the pod at
// /var/run/secrets/kubernetes.io/serviceaccount/token, and will change
// this file if and when the token expires and is reissued.
//
// Kubernetes replaces the file by swapping a symlink, so it is the
// containing directory which is watched.
type FileToken struct {
	mutex    sync.RWMutex
	token    string
	filename string

	log     logr.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
	stop    sync.Once
}

type FileTokenOption func(*FileToken)

func WithLogger(l logr.Logger) FileTokenOption {
	return func(t *FileToken) {
		t.log = l
	}
}

func NewFileToken(filename string, opts ...FileTokenOption) (*FileToken, error) {
	fileToken := &FileToken{
		filename: filepath.Clean(filename),
		log:      logging.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(fileToken)
	}
	fileToken.log = logging.With(fileToken.log, "file", fileToken.filename)

	value, err := readToken(fileToken.filename)
	if err != nil {
		return nil, err
	}
	fileToken.token = value

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watching token file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(fileToken.filename)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching token file: %w", err)
	}
	fileToken.watcher = watcher

	go fileToken.watch()

	return fileToken, nil
}

func readToken(filename string) (string, error) {
	value, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	token := strings.TrimSpace(string(value))
	if token == "" {
		return "", fmt.Errorf("reading token file %s: %w", filename, ErrEmptyToken)
	}
	return token, nil
}

func (t *FileToken) watch() {
	for {
		select {
		case <-t.done:
			return
		case _, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.reload()
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			logging.Error(t.log)(err, "token watch failed").Run()
		}
	}
}

// reload keeps the previous token if the file can't be read, as it may
// be partway through being replaced.
func (t *FileToken) reload() {
	value, err := readToken(t.filename)
	if err != nil {
		logging.Debug(t.log)("keeping previous token", "reason", err.Error()).Run()
		return
	}

	t.mutex.Lock()
	changed := t.token != value
	t.token = value
	t.mutex.Unlock()

	if changed {
		logging.Info(t.log)("token reloaded").Run()
	}
}

func (t *FileToken) Token() string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.token
}

// Close stops watching the file. The last token read remains available.
func (t *FileToken) Close() error {
	var err error
	t.stop.Do(func() {
		close(t.done)
		err = t.watcher.Close()
	})
	return err
}
