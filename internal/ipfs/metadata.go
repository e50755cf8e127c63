package ipfs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ProjectMetadata is the canonical off-chain metadata schema. Older pinned
// objects drifted between shapes; everything funnels through Normalize so
// views never see per-screen variants.
type ProjectMetadata struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	AreaOfStudy      string `json:"areaOfStudy,omitempty"`
	Visibility       string `json:"visibility"`
	OriginalFilename string `json:"originalFilename,omitempty"`
	FileType         string `json:"fileType,omitempty"`
	FileCid          string `json:"fileCid"`
	Timestamp        string `json:"timestamp,omitempty"`

	// LegacyFile carries the bare-file shape some early objects used.
	LegacyFile string `json:"file,omitempty"`
}

// Normalize validates the metadata in place, coercing legacy shapes onto the
// canonical one. It is called at the storage-gateway boundary; anything it
// rejects never reaches a view.
func (m *ProjectMetadata) Normalize() error {
	if m.FileCid == "" && m.LegacyFile != "" {
		m.FileCid = m.LegacyFile
	}
	m.LegacyFile = ""

	if strings.TrimSpace(m.FileCid) == "" {
		return fmt.Errorf("metadata missing file content identifier")
	}
	if err := ValidateCID(m.FileCid); err != nil {
		return fmt.Errorf("metadata file cid: %w", err)
	}
	if strings.TrimSpace(m.Name) == "" {
		m.Name = m.OriginalFilename
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("metadata missing name")
	}

	switch m.Visibility {
	case "public", "private":
	case "":
		m.Visibility = "public"
	default:
		return fmt.Errorf("invalid visibility %q", m.Visibility)
	}

	if m.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, m.Timestamp); err != nil {
			return fmt.Errorf("invalid timestamp %q", m.Timestamp)
		}
	}
	return nil
}

// DecodeMetadata parses and normalizes a pinned metadata object.
func DecodeMetadata(data []byte) (ProjectMetadata, error) {
	var meta ProjectMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return ProjectMetadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	if err := meta.Normalize(); err != nil {
		return ProjectMetadata{}, err
	}
	return meta, nil
}
