package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/utils"

	"archiv/internal/logging"
	"archiv/internal/model"
	"archiv/internal/storage"
)

// DocumentExt is the extension, compared case-insensitively, of listable documents.
const DocumentExt = ".pdf"

var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrNotFound        = errors.New("file not found")
)

// OpenedDocument is a located document ready to be streamed. The caller must close Body.
type OpenedDocument struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// List returns the listable documents, sorted by filename. A missing store yields an empty list.
	List(ctx context.Context) ([]model.Document, error)

	// Count returns the number of listable documents.
	Count(ctx context.Context) (int, error)

	// Open validates filename and locates the document for streaming.
	// It returns ErrInvalidFilename without touching storage, or ErrNotFound.
	Open(ctx context.Context, filename string) (*OpenedDocument, error)

	// Ping checks that the underlying store is readable.
	Ping(ctx context.Context) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	log   *logging.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, log *logging.Logger) DocumentService {
	if log == nil {
		log = logging.Discard()
	}
	return &documentService{store: store, log: log}
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	keys, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]model.Document, 0, len(keys))
	for _, name := range keys {
		if !IsDocumentName(name) {
			continue
		}
		info, err := s.store.Stat(ctx, name)
		if err != nil {
			// The entry vanished or is unreadable; leave it out of this listing.
			s.log.Warn("document_stat_failed", map[string]any{
				"request_id": logging.RequestID(ctx),
				"filename":   name,
				"error":      err,
			})
			continue
		}
		docs = append(docs, model.Document{
			Filename:     name,
			Title:        Title(name),
			Size:         info.Size,
			LastModified: info.LastModified,
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

func (s *documentService) Count(ctx context.Context) (int, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *documentService) Open(ctx context.Context, filename string) (*OpenedDocument, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}

	body, info, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open document: %w", err)
	}

	return &OpenedDocument{
		Filename:    filename,
		ContentType: ContentType(filename),
		Size:        info.Size,
		Body:        body,
	}, nil
}

func (s *documentService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ValidateFilename rejects names that could leave the document directory or that no
// filesystem accepts (NUL bytes). It expects an already percent-decoded path segment.
func ValidateFilename(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidFilename
	}
	return nil
}

// IsDocumentName reports whether name carries the document extension, ignoring case.
func IsDocumentName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), DocumentExt)
}

// Title derives a display title: the extension is dropped and '-' / '_' become spaces.
func Title(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("-", " ", "_", " ").Replace(base)
}

// ContentType picks the response media type from the file extension.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct := utils.GetMIME(ext); ct != "" {
		return ct
	}
	return utils.MIMEOctetStream
}
