package screens

import (
	"context"

	"collablearn/internal/chain"
	"collablearn/internal/ipfs"
	"collablearn/internal/shared/telemetry"
)

// Detail is everything the project view renders.
type Detail struct {
	Project     chain.Project
	Metadata    ipfs.ProjectMetadata
	DocumentURL string

	// ContentAvailable is false when the metadata or document could not be
	// resolved through the gateway. The project itself still renders.
	ContentAvailable bool
}

// DetailScreen loads one project and its off-chain content. The pipeline is
// sequential: registry read first, then metadata, then the document URL. A
// registry failure is fatal; a storage failure only marks the content
// unavailable.
type DetailScreen struct {
	Screen[Detail]

	reader  ProjectReader
	storage Storage
}

func NewDetailScreen(reader ProjectReader, storage Storage) *DetailScreen {
	return &DetailScreen{reader: reader, storage: storage}
}

// Open loads the project with the given id.
func (s *DetailScreen) Open(ctx context.Context, id uint64) {
	s.Load(ctx, func(ctx context.Context) (Detail, error) {
		return loadDetail(ctx, s.reader, s.storage, id)
	})
}

func loadDetail(ctx context.Context, reader ProjectReader, storage Storage, id uint64) (Detail, error) {
	project, err := reader.GetProject(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	detail := Detail{Project: project}
	meta, err := storage.FetchMetadata(ctx, project.MetadataCID)
	if err != nil {
		telemetry.Warn("detail.metadata_unavailable", map[string]any{
			"project_id": id,
			"cid":        project.MetadataCID,
			"error":      err.Error(),
		})
		return detail, nil
	}
	detail.Metadata = meta

	url, err := storage.ResolveURL(meta.FileCid)
	if err != nil {
		telemetry.Warn("detail.document_unavailable", map[string]any{
			"project_id": id,
			"cid":        meta.FileCid,
			"error":      err.Error(),
		})
		return detail, nil
	}
	detail.DocumentURL = url
	detail.ContentAvailable = true
	return detail, nil
}
