package screens

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"collablearn/internal/ipfs"
)

// docxBytes carries the OLE compound-file magic so Detect classifies it as a
// word-processing document.
func docxBytes() []byte {
	return append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, []byte("stub body")...)
}

func TestCreateFlowHappyPath(t *testing.T) {
	storage := newFakeStorage()
	writer := &fakeWriter{createID: 7}
	session := connectedSession(t, testOwner())

	flow := NewCreateFlow(storage, writer, session)
	result, err := flow.Run(context.Background(), CreateInput{
		Name:          "Protein Folding Notes",
		Description:   "Working notes",
		AreaOfStudy:   "biology",
		Visibility:    "public",
		FileName:      "notes.docx",
		File:          docxBytes(),
		RequiredStake: big.NewInt(0),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.ProjectID != 7 {
		t.Fatalf("project id = %d, want 7", result.ProjectID)
	}
	if result.FileCID == "" || result.MetadataCID == "" {
		t.Fatalf("missing CIDs: %+v", result)
	}
	if writer.lastMeta != result.MetadataCID {
		t.Fatalf("contract got metadata CID %q, want %q", writer.lastMeta, result.MetadataCID)
	}

	meta, err := storage.FetchMetadata(context.Background(), result.MetadataCID)
	if err != nil {
		t.Fatalf("fetch metadata: %v", err)
	}
	if meta.FileCid != result.FileCID {
		t.Fatalf("metadata fileCid = %q, want %q", meta.FileCid, result.FileCID)
	}
	if meta.OriginalFilename != "notes.docx" {
		t.Fatalf("originalFilename = %q", meta.OriginalFilename)
	}
	if meta.Timestamp == "" {
		t.Fatal("metadata missing timestamp")
	}
}

func TestCreateFlowUploadFailureStopsPipeline(t *testing.T) {
	storage := newFakeStorage()
	storage.uploadErr = ipfs.ErrUploadFailed
	writer := &fakeWriter{createID: 1}
	session := connectedSession(t, testOwner())

	flow := NewCreateFlow(storage, writer, session)
	_, err := flow.Run(context.Background(), CreateInput{
		Name:          "p",
		FileName:      "p.docx",
		File:          docxBytes(),
		RequiredStake: big.NewInt(0),
	})
	if !errors.Is(err, ipfs.ErrUploadFailed) {
		t.Fatalf("err = %v, want upload failure", err)
	}
	if writer.lastMeta != "" {
		t.Fatal("contract write issued despite upload failure")
	}
}

func TestCreateFlowRejectsEmptyInput(t *testing.T) {
	flow := NewCreateFlow(newFakeStorage(), &fakeWriter{}, connectedSession(t, testOwner()))

	if _, err := flow.Run(context.Background(), CreateInput{FileName: "x.docx", File: docxBytes(), RequiredStake: big.NewInt(0)}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := flow.Run(context.Background(), CreateInput{Name: "x", FileName: "x.docx", RequiredStake: big.NewInt(0)}); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := flow.Run(context.Background(), CreateInput{Name: "x", FileName: "x.docx", File: docxBytes()}); err == nil {
		t.Fatal("expected error for missing stake")
	}
}

func TestCreateFlowContractFailureSurfaces(t *testing.T) {
	writer := &fakeWriter{createErr: errors.New("execution reverted: stake too low")}
	flow := NewCreateFlow(newFakeStorage(), writer, connectedSession(t, testOwner()))

	_, err := flow.Run(context.Background(), CreateInput{
		Name:          "x",
		FileName:      "x.docx",
		File:          docxBytes(),
		RequiredStake: big.NewInt(1),
	})
	if err == nil {
		t.Fatal("expected contract error")
	}
}
