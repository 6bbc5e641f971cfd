package domain

import "testing"

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash("The interest rate is 5.5% annually.")
	b := ContentHash("The interest rate is 5.5% annually.")
	if a != b {
		t.Errorf("same content produced different hashes: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}
}

func TestContentHash_DifferentContent(t *testing.T) {
	if ContentHash("loan terms") == ContentHash("loan term") {
		t.Error("different content produced identical hashes")
	}
}

func TestChunkID(t *testing.T) {
	if got := ChunkID("doc1", 0); got != "doc1_chunk_0" {
		t.Errorf("expected doc1_chunk_0, got %s", got)
	}
	if got := ChunkID("ref_guide", 12); got != "ref_guide_chunk_12" {
		t.Errorf("expected ref_guide_chunk_12, got %s", got)
	}
}

func TestContentType_Valid(t *testing.T) {
	valid := []ContentType{ContentTypeText, ContentTypePDF, ContentTypeImage}
	for _, ct := range valid {
		if !ct.Valid() {
			t.Errorf("expected %s to be valid", ct)
		}
	}
	if ContentType("docx").Valid() {
		t.Error("expected docx to be invalid")
	}
	if ContentType("").Valid() {
		t.Error("expected empty content type to be invalid")
	}
}

func TestDocument_IsReference(t *testing.T) {
	doc := Document{Metadata: map[string]any{MetadataSource: SourceReferenceLibrary}}
	if !doc.IsReference() {
		t.Error("expected reference document")
	}

	doc = Document{Metadata: map[string]any{MetadataSource: "upload"}}
	if doc.IsReference() {
		t.Error("expected non-reference document")
	}

	doc = Document{}
	if doc.IsReference() {
		t.Error("expected document without metadata to be non-reference")
	}
}

func TestSessionContext_Global(t *testing.T) {
	if !(SessionContext{}).Global() {
		t.Error("empty session context should be global")
	}
	if (SessionContext{ID: "sess-a"}).Global() {
		t.Error("session-scoped context should not be global")
	}
}
