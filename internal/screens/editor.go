package screens

import (
	"context"
	"fmt"
	"sync"
	"time"

	"collablearn/internal/collab"
	"collablearn/internal/convert"
	"collablearn/internal/shared/telemetry"
	"collablearn/internal/wallet"
)

// EditorView is the collaborative editor's loaded state: the project, its
// document rendered as HTML, and the collaboration session for the room.
type EditorView struct {
	Detail
	HTML    string
	Session collab.SessionResult
}

// EditorScreen prepares a project document for collaborative editing. Loading
// runs strictly in order: registry read, metadata fetch, document fetch,
// conversion, then collaboration auth. Any failure stops the pipeline.
type EditorScreen struct {
	Screen[EditorView]

	reader     ProjectReader
	writer     ProjectWriter
	storage    Storage
	converter  Converter
	authorizer Authorizer
	session    *wallet.Session
	now        func() time.Time

	mu        sync.Mutex
	projectID uint64
	loaded    bool
}

func NewEditorScreen(reader ProjectReader, writer ProjectWriter, storage Storage, converter Converter, authorizer Authorizer, session *wallet.Session) *EditorScreen {
	return &EditorScreen{
		reader:     reader,
		writer:     writer,
		storage:    storage,
		converter:  converter,
		authorizer: authorizer,
		session:    session,
		now:        time.Now,
	}
}

// Open loads the editor for the given project.
func (s *EditorScreen) Open(ctx context.Context, id uint64) {
	s.mu.Lock()
	s.projectID = id
	s.loaded = false
	s.mu.Unlock()

	s.Load(ctx, func(ctx context.Context) (EditorView, error) {
		view, err := s.loadEditor(ctx, id)
		if err == nil {
			s.mu.Lock()
			s.loaded = true
			s.mu.Unlock()
		}
		return view, err
	})
}

func (s *EditorScreen) loadEditor(ctx context.Context, id uint64) (EditorView, error) {
	project, err := s.reader.GetProject(ctx, id)
	if err != nil {
		return EditorView{}, err
	}

	meta, err := s.storage.FetchMetadata(ctx, project.MetadataCID)
	if err != nil {
		return EditorView{}, fmt.Errorf("fetch metadata: %w", err)
	}

	data, err := s.storage.FetchBytes(ctx, meta.FileCid)
	if err != nil {
		return EditorView{}, fmt.Errorf("fetch document: %w", err)
	}

	kind := convert.Detect(data)
	if !convert.IsWordProcessing(kind) {
		return EditorView{}, fmt.Errorf("%w: %s documents cannot be edited", convert.ErrUnsupportedFormat, kind)
	}
	html, err := s.converter.Convert(ctx, meta.OriginalFilename, data)
	if err != nil {
		return EditorView{}, fmt.Errorf("convert document: %w", err)
	}

	state := s.session.Snapshot()
	if !state.Authenticated {
		return EditorView{}, wallet.ErrNotConnected
	}
	auth, err := s.authorizer.Authorize(ctx, state.Address.Hex())
	if err != nil {
		return EditorView{}, fmt.Errorf("collaboration auth: %w", err)
	}

	url, _ := s.storage.ResolveURL(meta.FileCid)
	return EditorView{
		Detail: Detail{
			Project:          project,
			Metadata:         meta,
			DocumentURL:      url,
			ContentAvailable: true,
		},
		HTML:    html,
		Session: auth,
	}, nil
}

// SaveDocument uploads the edited document, pins a fresh metadata object and
// advances the project's version on chain. It returns the new metadata CID.
func (s *EditorScreen) SaveDocument(ctx context.Context, data []byte) (string, error) {
	s.mu.Lock()
	id := s.projectID
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		return "", fmt.Errorf("editor not loaded")
	}

	view, status, _ := s.Snapshot()
	if status != StatusReady {
		return "", fmt.Errorf("editor not loaded")
	}

	fileCID, err := s.storage.UploadFile(ctx, view.Metadata.OriginalFilename, data)
	if err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}

	meta := view.Metadata
	meta.FileCid = fileCID
	meta.Timestamp = s.now().UTC().Format(time.RFC3339)
	if err := meta.Normalize(); err != nil {
		return "", err
	}

	metaCID, err := s.storage.UploadJSON(ctx, meta)
	if err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}

	opts, err := s.session.TransactOpts(ctx)
	if err != nil {
		return "", err
	}
	if err := s.writer.UpdateProjectVersion(opts, id, metaCID); err != nil {
		return "", err
	}

	telemetry.Info("project.version_updated", map[string]any{
		"project_id":   id,
		"metadata_cid": metaCID,
	})
	return metaCID, nil
}
