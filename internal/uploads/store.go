// Package uploads validates multipart files and stores them on local disk,
// returning the public path they are served under.
package uploads

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/rolejet/RoleJet/internal/common"
)

const PublicPrefix = "/uploads"

type Kind int

const (
	// KindImage covers logos and profile pictures.
	KindImage Kind = iota
	// KindResume accepts PDFs as well as scanned images.
	KindResume
)

var extensionMIME = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

func (k Kind) allows(mime string) bool {
	if mime == "application/pdf" {
		return k == KindResume
	}
	return true
}

type Store struct {
	dir      string
	maxBytes int64
	newName  func() string
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, newName: uuid.NewString}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save validates fh against kind and writes it under a fresh name.
func (s *Store) Save(fh *multipart.FileHeader, kind Kind) (string, error) {
	if fh == nil {
		return "", invalid("No file uploaded")
	}
	if fh.Size > s.maxBytes {
		return "", invalid(fmt.Sprintf("File exceeds the %d MB limit", s.maxBytes>>20))
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	expected, ok := extensionMIME[ext]
	if !ok || !kind.allows(expected) {
		return "", invalid(kind.rejection())
	}

	src, err := fh.Open()
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to read upload", err)
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to read upload", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", invalid(fmt.Sprintf("File exceeds the %d MB limit", s.maxBytes>>20))
	}

	detected := mimetype.Detect(data)
	if !detected.Is(expected) {
		return "", invalid(kind.rejection())
	}
	if expected == "application/pdf" {
		if err := checkPDF(data); err != nil {
			return "", common.NewError(common.CodeValidation, "PDF file is damaged or empty", fmt.Errorf("%w: %v", common.ErrInvalidFile, err))
		}
	}

	name := s.newName() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", common.NewError(common.CodeInternal, "failed to store upload", err)
	}
	return PublicPrefix + "/" + name, nil
}

func (k Kind) rejection() string {
	if k == KindResume {
		return "Only images and PDF files are allowed!"
	}
	return "Only image files are allowed!"
}

func invalid(message string) error {
	return common.NewError(common.CodeValidation, message, common.ErrInvalidFile)
}

// checkPDF parses the document and requires at least one page. The parser
// panics on some malformed inputs.
func checkPDF(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (s *Store) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	if name == publicPath || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
