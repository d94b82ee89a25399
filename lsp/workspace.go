package lsp

import "sync"

// Document is an open text document as last sent by the client.
type Document struct {
	Path    string
	Content []byte
}

// Workspace keeps the documents the client has opened.
type Workspace struct {
	mu    sync.RWMutex
	files map[string]*Document
}

func NewWorkspace() *Workspace {
	return &Workspace{files: make(map[string]*Document)}
}

func (w *Workspace) UpdateFile(path string, content []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = &Document{Path: path, Content: content}
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}
