package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"archiv/internal/http/middleware"
	"archiv/internal/logging"
	"archiv/internal/model"
	"archiv/internal/service"
)

// firstChunkSize bytes are read before any header is sent, so a failing file still gets a 500.
const firstChunkSize = 32 << 10

// ServeOptions are the transport knobs of the file server.
type ServeOptions struct {
	CacheMaxAgeSec    int
	SendContentLength bool
	Production        bool
	// OnStreamError is called when a transfer fails after the response has started.
	OnStreamError func(filename string, err error)
}

type listResponse struct {
	Success   bool             `json:"success"`
	PDFs      []model.Document `json:"pdfs"`
	Count     int              `json:"count"`
	Timestamp time.Time        `json:"timestamp"`
}

// ListDocuments godoc
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {object} listResponse
// @Failure 500 {object} errorPayload
// @Router /api/pdf/list [get]
func ListDocuments(svc service.DocumentService, log *logging.Logger, production bool) fiber.Handler {
	log = orDiscard(log)
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			log.Error("document_list_failed", map[string]any{
				"request_id": middleware.RequestIDFromCtx(c),
				"error":      err,
			})
			return writeError(c, fiber.StatusInternalServerError, "Failed to read PDF directory", errorDetails(production, err))
		}
		return c.JSON(listResponse{
			Success:   true,
			PDFs:      docs,
			Count:     len(docs),
			Timestamp: time.Now().UTC(),
		})
	}
}

// ServeDocument godoc
// @Summary Stream a document
// @Description Streams the named file inline. Names containing "..", "/" or "\" are rejected.
// @Tags documents
// @Produce application/pdf
// @Param filename path string true "File name, e.g. ch1.pdf"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /pdfs/{filename} [get]
// @Router /api/pdf/{filename} [get]
func ServeDocument(svc service.DocumentService, log *logging.Logger, opts ServeOptions) fiber.Handler {
	log = orDiscard(log)
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		rid := middleware.RequestIDFromCtx(c)
		raw := c.Params("filename")

		// Validation runs on the decoded segment: "..%2f" must be seen as "../".
		name, err := url.PathUnescape(raw)
		if err != nil {
			name = ""
		}

		doc, err := svc.Open(ctx, name)
		switch {
		case errors.Is(err, service.ErrInvalidFilename):
			log.Warn("invalid_filename", map[string]any{"request_id": rid, "filename": raw, "origin": c.Get(fiber.HeaderOrigin)})
			return writeError(c, fiber.StatusBadRequest, "Invalid filename", "")
		case errors.Is(err, service.ErrNotFound):
			return writeError(c, fiber.StatusNotFound, "File not found", "")
		case err != nil:
			trace.SpanFromContext(ctx).RecordError(err)
			log.Error("document_open_failed", map[string]any{"request_id": rid, "filename": name, "error": err})
			return writeError(c, fiber.StatusInternalServerError, "Error reading file", errorDetails(opts.Production, err))
		}

		head := make([]byte, firstChunkSize)
		n, err := io.ReadFull(doc.Body, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			doc.Body.Close()
			trace.SpanFromContext(ctx).RecordError(err)
			log.Error("document_read_failed", map[string]any{"request_id": rid, "filename": name, "error": err})
			return writeError(c, fiber.StatusInternalServerError, "Error reading file", errorDetails(opts.Production, err))
		}

		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("archiv.document.filename", doc.Filename),
			attribute.Int64("archiv.document.size", doc.Size),
		)

		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, inlineDisposition(doc.Filename))
		c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", opts.CacheMaxAgeSec))

		body := &streamReader{
			r:    io.MultiReader(bytes.NewReader(head[:n]), doc.Body),
			c:    doc.Body,
			done: streamDone(log, rid, doc, c.Method() == fiber.MethodHead, opts.OnStreamError),
		}

		size := -1
		if opts.SendContentLength {
			size = int(doc.Size)
		}
		return c.SendStream(body, size)
	}
}

func streamDone(log *logging.Logger, rid string, doc *service.OpenedDocument, headOnly bool, onErr func(string, error)) func(int64, error) {
	return func(sent int64, err error) {
		fields := map[string]any{"request_id": rid, "filename": doc.Filename, "bytes": sent, "size": doc.Size}
		switch {
		case err != nil:
			fields["error"] = err
			log.Error("document_stream_failed", fields)
			if onErr != nil {
				onErr(doc.Filename, err)
			}
		case sent < doc.Size && !headOnly:
			log.Warn("document_stream_aborted", fields)
		default:
			log.Info("document_served", fields)
		}
	}
}

// inlineDisposition keeps the file name as is; non-ASCII names use the RFC 2231 form.
func inlineDisposition(filename string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "inline"
}

// HealthCheck godoc
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "Document store unavailable", "")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

func orDiscard(log *logging.Logger) *logging.Logger {
	if log == nil {
		return logging.Discard()
	}
	return log
}
