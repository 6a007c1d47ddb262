package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rolejet/RoleJet/internal/common"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// minimalPDF builds a one-page document with a correct xref table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func newTestStore(t *testing.T, max int64) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "uploads"), max)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.newName = func() string { return "fixed" }
	return store
}

func TestSaveImage(t *testing.T) {
	store := newTestStore(t, 10<<20)
	path, err := store.Save(fileHeader(t, "logo.PNG", pngHeader), KindImage)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != "/uploads/fixed.png" {
		t.Fatalf("unexpected path %s", path)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "fixed.png")); err != nil {
		t.Fatalf("file not written: %v", err)
	}
}

func TestSaveResumePDF(t *testing.T) {
	store := newTestStore(t, 10<<20)
	path, err := store.Save(fileHeader(t, "cv.pdf", minimalPDF()), KindResume)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Fatalf("unexpected path %s", path)
	}
}

func TestSaveRejections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		kind    Kind
		max     int64
	}{
		{name: "pdf as logo", file: "logo.pdf", content: minimalPDF(), kind: KindImage, max: 10 << 20},
		{name: "unknown extension", file: "cv.docx", content: []byte("PK\x03\x04"), kind: KindResume, max: 10 << 20},
		{name: "content does not match extension", file: "cv.pdf", content: pngHeader, kind: KindResume, max: 10 << 20},
		{name: "broken pdf", file: "cv.pdf", content: []byte("%PDF-1.4\nnot really a document"), kind: KindResume, max: 10 << 20},
		{name: "too large", file: "logo.png", content: append(append([]byte{}, pngHeader...), make([]byte, 64)...), kind: KindImage, max: 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, tt.max)
			_, err := store.Save(fileHeader(t, tt.file, tt.content), tt.kind)
			if !errors.Is(err, common.ErrInvalidFile) || !common.Is(err, common.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			entries, _ := os.ReadDir(store.Dir())
			if len(entries) != 0 {
				t.Fatalf("rejected upload must not be written")
			}
		})
	}
}

func TestSaveNilFile(t *testing.T) {
	store := newTestStore(t, 10<<20)
	if _, err := store.Save(nil, KindResume); !errors.Is(err, common.ErrInvalidFile) {
		t.Fatalf("expected invalid file, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t, 10<<20)
	path, err := store.Save(fileHeader(t, "logo.png", pngHeader), KindImage)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "fixed.png")); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	if err := store.Remove("/uploads/../secret"); err != nil {
		t.Fatalf("traversal path must be ignored, got %v", err)
	}
}
