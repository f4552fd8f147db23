package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("target.cpp", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("target.cpp")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// Re-adding the same path records a new revision.
	id2 := fs.Add("target.cpp", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists = fs.GetLatest("target.cpp")
	if !exists {
		t.Error("Expected file to exist after second Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// The old revision stays reachable.
	file1 := fs.Get(id1)
	if string(file1.Content) != "hello world" {
		t.Errorf("Expected first revision 'hello world', got %q", string(file1.Content))
	}

	file2 := fs.Get(id2)
	if string(file2.Content) != "hello universe" {
		t.Errorf("Expected second revision 'hello universe', got %q", string(file2.Content))
	}

	if file1.Path != "target.cpp" || file2.Path != "target.cpp" {
		t.Error("Expected both revisions to share the path")
	}
}

func TestAddRevisionKeepsPathAndFlags(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.cpp", []byte("int x;\n"), FileHadBOM|FileNormalizedCRLF)
	id2 := fs.AddRevision(id1, []byte("int x;\nint y;\n"))

	if id2 == id1 {
		t.Fatal("Expected a new FileID for the revision")
	}

	rev := fs.Get(id2)
	if rev.Path != "main.cpp" {
		t.Errorf("Expected path 'main.cpp', got %q", rev.Path)
	}
	if rev.Flags&FileHadBOM == 0 || rev.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("Expected flags to carry over, got %v", rev.Flags)
	}
	if string(rev.Content) != "int x;\nint y;\n" {
		t.Errorf("Unexpected revision content %q", string(rev.Content))
	}

	latest, ok := fs.GetLatest("main.cpp")
	if !ok || latest != id2 {
		t.Errorf("Expected latest to point at revision, got %d (ok=%v)", latest, ok)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" indexes its newline offsets.
	id := fs.AddVirtual("a.cpp", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Errorf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}

	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}

	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestNumLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    uint32
	}{
		{"empty file", "", 1},
		{"no trailing newline", "a", 1},
		{"single newline only", "\n", 1},
		{"two lines no trailing", "a\nb", 2},
		{"two lines trailing", "a\nb\n", 2},
		{"blank middle line", "a\n\nb", 3},
	}

	fs := NewFileSet()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := fs.AddVirtual(tt.name, []byte(tt.content))
			if got := fs.Get(id).NumLines(); got != tt.want {
				t.Errorf("NumLines(%q) = %d, want %d", tt.content, got, tt.want)
			}
		})
	}
}

func TestGetLineAndLineSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.cpp", []byte("first\n\tsecond\nthird"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "first" {
		t.Errorf("GetLine(1) = %q, want %q", got, "first")
	}
	if got := f.GetLine(2); got != "\tsecond" {
		t.Errorf("GetLine(2) = %q, want %q", got, "\tsecond")
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("GetLine(3) = %q, want %q", got, "third")
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("GetLine(0) = %q, want empty", got)
	}

	span2 := f.LineSpan(2)
	if span2.Start != 6 || span2.End != 13 {
		t.Errorf("LineSpan(2) = %v, want 6-13", span2)
	}
	span3 := f.LineSpan(3)
	if span3.Start != 14 || span3.End != 19 {
		t.Errorf("LineSpan(3) = %v, want 14-19", span3)
	}
}

func TestLineIndent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.cpp", []byte("none\n    four\n\ttab\n   \n"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{1, ""},
		{2, "    "},
		{3, "\t"},
		{4, "   "}, // whitespace-only line is all indent
	}
	for _, tt := range tests {
		if got := f.LineIndent(tt.line); got != tt.want {
			t.Errorf("LineIndent(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestCRLFNormalization(t *testing.T) {
	fs := NewFileSet()

	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)

	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}

	expected := []byte("a\nb\n")
	if string(normalized) != string(expected) {
		t.Errorf("Expected normalized content %q, got %q", string(expected), string(normalized))
	}

	id := fs.Add("t.cpp", normalized, FileNormalizedCRLF)
	file := fs.Get(id)

	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
}

func TestEncodeRestoresEnvelope(t *testing.T) {
	fs := NewFileSet()

	id := fs.Add("t.cpp", []byte("a\nb\n"), FileHadBOM|FileNormalizedCRLF)
	got := fs.Get(id).Encode()

	want := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\r\n")...)
	if string(got) != string(want) {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	// Without flags Encode returns the content untouched.
	plainID := fs.Add("p.cpp", []byte("a\nb\n"), 0)
	if string(fs.Get(plainID).Encode()) != "a\nb\n" {
		t.Error("Encode() altered content without envelope flags")
	}
}

func TestLoadEncodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.cpp")

	raw := []byte("\xEF\xBB\xBFone\r\ntwo\r\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	file := fs.Get(id)
	if string(file.Content) != "one\ntwo\n" {
		t.Errorf("Expected normalized content, got %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("Expected envelope flags, got %v", file.Flags)
	}

	if string(file.Encode()) != string(raw) {
		t.Errorf("Encode() != original bytes: %q vs %q", file.Encode(), raw)
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()

	// α is 2 bytes; columns are byte-based.
	content := []byte("α\n")
	id := fs.AddVirtual("t.cpp", content)

	span := Span{File: id, Start: 0, End: 1}
	start, end := fs.Resolve(span)

	expectedStart := LineCol{Line: 1, Col: 1}
	expectedEnd := LineCol{Line: 1, Col: 2}

	if start != expectedStart {
		t.Errorf("Expected start %+v, got %+v", expectedStart, start)
	}

	if end != expectedEnd {
		t.Errorf("Expected end %+v, got %+v", expectedEnd, end)
	}
}

func TestPositionAcrossLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.cpp", []byte("ab\ncd\n"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 1, Col: 3}}, // the newline terminates line 1
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{6, LineCol{Line: 3, Col: 1}}, // EOF lands on the phantom next line
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.AddVirtual("empty.cpp", []byte{})
	file1 := fs.Get(id1)
	if len(file1.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for empty file, got length %d", len(file1.LineIdx))
	}

	id2 := fs.AddVirtual("no_newlines.cpp", []byte("hello"))
	file2 := fs.Get(id2)
	if len(file2.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for file without newlines, got length %d", len(file2.LineIdx))
	}

	id3 := fs.AddVirtual("only_newline.cpp", []byte("\n"))
	file3 := fs.Get(id3)
	if len(file3.LineIdx) != 1 || file3.LineIdx[0] != 0 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", file3.LineIdx)
	}
}

func TestLoad(t *testing.T) {
	fs := NewFileSet()
	tempFile, err := os.CreateTemp("", "graft-load")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	_, err = tempFile.WriteString("a\nb\n")
	if err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	err = tempFile.Close()
	if err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	id, err := fs.Load(tempFile.Name())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", string(file.Content))
	}
	if file.LineIdx[0] != 1 {
		t.Errorf("Expected LineIdx[0] to be 1, got %d", file.LineIdx[0])
	}
	if file.LineIdx[1] != 3 {
		t.Errorf("Expected LineIdx[1] to be 3, got %d", file.LineIdx[1])
	}
}
