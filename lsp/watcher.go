package lsp

import (
	"os"
	"time"

	"github.com/dhamidi/codegram/ngram"
)

// ModelWatcher polls a model file and reloads it when its modification
// time changes.
type ModelWatcher struct {
	path         string
	onChange     func(*ngram.Model)
	stopCh       chan struct{}
	pollInterval time.Duration
	modTime      time.Time
}

func NewModelWatcher(path string, interval time.Duration, onChange func(*ngram.Model)) *ModelWatcher {
	w := &ModelWatcher{
		path:         path,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
	}
	if info, err := os.Stat(path); err == nil {
		w.modTime = info.ModTime()
	}
	return w
}

func (w *ModelWatcher) Start() {
	go w.run()
}

func (w *ModelWatcher) Stop() {
	close(w.stopCh)
}

func (w *ModelWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan reloads the model if the file changed since the last successful
// load and reports whether it did.
func (w *ModelWatcher) scan() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		log.Warningf("stat %s: %v", w.path, err)
		return false
	}
	if !info.ModTime().After(w.modTime) {
		return false
	}
	model, err := ngram.LoadFile(w.path)
	if err != nil {
		log.Warningf("reload %s: %v", w.path, err)
		return false
	}
	w.modTime = info.ModTime()
	log.Infof("reloaded model %s (n=%d, %d contexts)", w.path, model.N(), len(model.Contexts()))
	w.onChange(model)
	return true
}
