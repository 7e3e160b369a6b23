package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/loom/internal/engine"
	"github.com/dshills/loom/internal/highlight"
)

// Document is an open file and its editor state: the engine, the highlight
// pipeline fed by engine change notifications, and save bookkeeping.
type Document struct {
	id     uuid.UUID
	engine *engine.Engine
	hl     *highlight.Pipeline

	mu   sync.RWMutex
	path string
	name string

	// Revision last written to disk. The document is modified when the
	// engine has moved past it.
	savedRevision engine.RevisionID
}

// OpenDocument reads a file into a new document. A missing file opens an
// empty buffer that will be created on first save.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(abs)
	if err != nil && !os.IsNotExist(err) {
		return nil, &FileError{Op: "open", Path: abs, Err: err}
	}
	opts = append(opts, engine.WithContent(string(content)))

	doc := newDocument(engine.New(opts...), abs, filepath.Base(abs))
	doc.savedRevision = doc.engine.RevisionID()
	return doc, nil
}

// NewScratchDocument creates a document with no backing file.
func NewScratchDocument(opts ...engine.Option) *Document {
	doc := newDocument(engine.New(opts...), "", "[scratch]")
	doc.savedRevision = doc.engine.RevisionID()
	return doc
}

func newDocument(eng *engine.Engine, path, name string) *Document {
	doc := &Document{
		id:     uuid.New(),
		engine: eng,
		hl:     highlight.NewPipeline(highlight.LexerFor(name)),
		path:   path,
		name:   name,
	}
	doc.hl.Start()
	eng.Subscribe(doc.hl.Notify)
	doc.hl.Notify(eng.Snapshot())
	return doc
}

// ID returns the document's unique identity.
func (d *Document) ID() uuid.UUID { return d.id }

// Engine returns the editing engine.
func (d *Document) Engine() *engine.Engine { return d.engine }

// Highlight returns the current highlight state.
func (d *Document) Highlight() *highlight.State { return d.hl.State() }

// Path returns the absolute file path, empty for scratch documents.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Name returns the display name.
func (d *Document) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// IsScratch reports whether the document has no backing file.
func (d *Document) IsScratch() bool {
	return d.Path() == ""
}

// IsModified reports whether there are unsaved changes.
func (d *Document) IsModified() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine.RevisionID() != d.savedRevision
}

// Save writes the buffer to its file.
func (d *Document) Save() error {
	return d.saveTo("")
}

// SaveAs writes the buffer to a new path, which becomes the document's
// file from then on.
func (d *Document) SaveAs(path string) error {
	if path == "" {
		return ErrNoFilePath
	}
	return d.saveTo(path)
}

func (d *Document) saveTo(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if path == "" {
		path = d.path
	}
	if path == "" {
		return ErrNoFilePath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	snap := d.engine.Snapshot()
	if err := os.WriteFile(abs, []byte(snap.Text()), 0o644); err != nil {
		return &FileError{Op: "save", Path: abs, Err: err}
	}

	d.path = abs
	d.name = filepath.Base(abs)
	d.savedRevision = snap.RevisionID()
	return nil
}

// Close shuts down the highlight pipeline.
func (d *Document) Close() {
	d.hl.Stop()
}

// Describe returns a short status string for the document.
func (d *Document) Describe() string {
	name := d.Name()
	if d.IsModified() {
		return fmt.Sprintf("%s [+]", name)
	}
	return name
}
