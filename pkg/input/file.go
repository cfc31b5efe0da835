package input

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher emits a FileChanged event when a watched file's contents
// actually change. Editors rewrite files without changing content often
// enough that raw notifications are useless as change events, so contents
// are compared against the last observation.
type FileWatcher struct {
	w   *fsnotify.Watcher
	q   *Queue
	log *slog.Logger

	mu    sync.Mutex
	files map[string]*watchedFile

	done chan struct{}
}

type watchedFile struct {
	decodeJSON bool
	contents   any
}

// NewFileWatcher starts a watcher feeding q.
func NewFileWatcher(q *Queue, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("file watcher: %w", err)
	}
	fw := &FileWatcher{
		w:     w,
		q:     q,
		log:   logger,
		files: make(map[string]*watchedFile),
		done:  make(chan struct{}),
	}
	go fw.run()
	return fw, nil
}

// Watch registers path. The current contents seed the comparison baseline
// without firing an event. With decodeJSON the contents are decoded before
// comparison and delivered decoded.
func (fw *FileWatcher) Watch(path string, decodeJSON bool) error {
	contents, err := readContents(path, decodeJSON)
	if err != nil {
		return err
	}
	fw.mu.Lock()
	fw.files[path] = &watchedFile{decodeJSON: decodeJSON, contents: contents}
	fw.mu.Unlock()
	if err := fw.w.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}

// Unwatch removes path from the watch set.
func (fw *FileWatcher) Unwatch(path string) error {
	fw.mu.Lock()
	delete(fw.files, path)
	fw.mu.Unlock()
	return fw.w.Remove(path)
}

func (fw *FileWatcher) run() {
	defer close(fw.done)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				fw.check(ev.Name)
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.log.Warn("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) check(path string) {
	fw.mu.Lock()
	wf, ok := fw.files[path]
	fw.mu.Unlock()
	if !ok {
		return
	}
	contents, err := readContents(path, wf.decodeJSON)
	if err != nil {
		fw.log.Warn("read watched file", "path", path, "error", err)
		return
	}
	fw.mu.Lock()
	same := reflect.DeepEqual(wf.contents, contents)
	if !same {
		wf.contents = contents
	}
	fw.mu.Unlock()
	if same {
		return
	}
	if !fw.q.Push(FileChanged{Path: path, Contents: contents}) {
		fw.log.Warn("input queue full, dropping file event", "path", path)
	}
}

func readContents(path string, decodeJSON bool) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if decodeJSON {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return v, nil
	}
	return strings.TrimSpace(string(data)), nil
}

// Close stops the watcher.
func (fw *FileWatcher) Close() error {
	err := fw.w.Close()
	<-fw.done
	return err
}
