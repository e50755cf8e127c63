package screens

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"collablearn/internal/convert"
	"collablearn/internal/ipfs"
	"collablearn/internal/shared/telemetry"
	"collablearn/internal/shared/util"
	"collablearn/internal/wallet"
)

// CreateInput is the new-project form.
type CreateInput struct {
	Name          string
	Description   string
	AreaOfStudy   string
	Visibility    string
	FileName      string
	File          []byte
	RequiredStake *big.Int
}

// CreateResult reports a confirmed project creation.
type CreateResult struct {
	ProjectID   uint64
	MetadataCID string
	FileCID     string
}

// CreateFlow runs the full creation pipeline: upload the document, pin the
// metadata object pointing at it, then register the project on chain. Each
// step waits for the previous one; the flow fails fast at the first error.
type CreateFlow struct {
	storage Storage
	writer  ProjectWriter
	session *wallet.Session
	now     func() time.Time
}

func NewCreateFlow(storage Storage, writer ProjectWriter, session *wallet.Session) *CreateFlow {
	return &CreateFlow{
		storage: storage,
		writer:  writer,
		session: session,
		now:     time.Now,
	}
}

// Run executes the pipeline and returns once the creation transaction is
// mined and the new project id is decoded from the receipt.
func (f *CreateFlow) Run(ctx context.Context, in CreateInput) (CreateResult, error) {
	if err := validateCreateInput(in); err != nil {
		return CreateResult{}, err
	}

	fileName, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		return CreateResult{}, fmt.Errorf("file name: %w", err)
	}

	fileCID, err := f.storage.UploadFile(ctx, fileName, in.File)
	if err != nil {
		return CreateResult{}, fmt.Errorf("upload document: %w", err)
	}

	kind := convert.Detect(in.File)
	meta := ipfs.ProjectMetadata{
		Name:             in.Name,
		Description:      in.Description,
		AreaOfStudy:      in.AreaOfStudy,
		Visibility:       in.Visibility,
		OriginalFilename: fileName,
		FileType:         convert.MimeType(kind),
		FileCid:          fileCID,
		Timestamp:        f.now().UTC().Format(time.RFC3339),
	}
	if err := meta.Normalize(); err != nil {
		return CreateResult{}, err
	}

	metaCID, err := f.storage.UploadJSON(ctx, meta)
	if err != nil {
		return CreateResult{}, fmt.Errorf("upload metadata: %w", err)
	}

	opts, err := f.session.TransactOpts(ctx)
	if err != nil {
		return CreateResult{}, err
	}
	id, err := f.writer.CreateProject(opts, in.Name, metaCID, in.Description, in.RequiredStake, opts.From)
	if err != nil {
		return CreateResult{}, err
	}

	telemetry.Info("project.created", map[string]any{
		"project_id":   id,
		"metadata_cid": metaCID,
		"file_cid":     fileCID,
	})
	return CreateResult{ProjectID: id, MetadataCID: metaCID, FileCID: fileCID}, nil
}

func validateCreateInput(in CreateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("project name is required")
	}
	if len(in.File) == 0 {
		return errors.New("a document file is required")
	}
	if in.RequiredStake == nil || in.RequiredStake.Sign() < 0 {
		return errors.New("required stake must be zero or positive")
	}
	return nil
}
