// Package server exposes the converter as an HTTP upload endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Config configures the HTTP surface.
type Config struct {
	// Addr is the listen address.
	Addr string
	// MaxUploadBytes caps the accepted upload size.
	MaxUploadBytes int64
	// AllowOrigin is sent as Access-Control-Allow-Origin; empty disables CORS headers.
	AllowOrigin string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8000",
		MaxUploadBytes: 50 << 20,
		AllowOrigin:    "*",
	}
}

// Server serves POST /api/convert and GET /healthz.
type Server struct {
	conv   *qamatrix.Converter
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
	router *gin.Engine
}

// New creates a Server around conv.
func New(conv *qamatrix.Converter, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}

	s := &Server{conv: conv, cfg: cfg, log: logger, now: time.Now}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(gin.Recovery(), s.requestID(), s.accessLog(), s.cors())
	router.GET("/healthz", s.handleHealth)
	router.POST("/api/convert", s.handleConvert)
	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes_out", c.Writer.Size(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AllowOrigin == "" {
			c.Next()
			return
		}
		c.Header("Access-Control-Allow-Origin", s.cfg.AllowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, X-Conversion-Warnings")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func fail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func (s *Server) handleConvert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, s.tooLargeDetail())
			return
		}
		fail(c, http.StatusBadRequest, "No file uploaded. Send the presentation in the \"file\" form field.")
		return
	}

	name := uploadName(fh.Filename)
	ext := strings.ToLower(path.Ext(name))
	if ext != ".pptx" && ext != ".ppt" {
		fail(c, http.StatusBadRequest, "Only .pptx or .ppt files are supported. Please upload a valid file.")
		return
	}
	if fh.Size > s.cfg.MaxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, s.tooLargeDetail())
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, fmt.Sprintf("Conversion error: %v", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		fail(c, http.StatusInternalServerError, fmt.Sprintf("Conversion error: %v", err))
		return
	}
	if len(data) == 0 {
		fail(c, http.StatusBadRequest, "Uploaded file is empty.")
		return
	}

	res, err := s.conv.Convert(c.Request.Context(), data, name)
	if err != nil {
		status := statusFor(err)
		s.log.Warn("conversion failed",
			"request_id", c.GetString("request_id"), "file", name, "status", status, "error", err)
		if status == http.StatusInternalServerError {
			fail(c, status, fmt.Sprintf("Conversion error: %v", err))
			return
		}
		fail(c, status, err.Error())
		return
	}

	for _, w := range res.Warnings {
		s.log.Warn("conversion warning", "request_id", c.GetString("request_id"), "file", name, "warning", w)
	}
	s.log.Info("converted",
		"request_id", c.GetString("request_id"),
		"file", name,
		"bytes_in", len(data),
		"bytes_out", len(res.Workbook),
		"sections", len(res.Sections),
	)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, s.outputName(name)))
	c.Header("X-Conversion-Warnings", strconv.Itoa(len(res.Warnings)))
	c.Data(http.StatusOK, xlsxContentType, res.Workbook)
}

func (s *Server) tooLargeDetail() string {
	return fmt.Sprintf("Uploaded file exceeds the %d MB limit.", s.cfg.MaxUploadBytes>>20)
}

// statusFor maps conversion errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, qamatrix.ErrUnsupportedFormat),
		errors.Is(err, qamatrix.ErrToolUnavailable),
		errors.Is(err, qamatrix.ErrMalformedDocument):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// uploadName strips any client-side directory from a multipart file name.
func uploadName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return path.Base(name)
}

// outputName returns "<base>_test_sheet_<YYYYmmdd_HHMMSS>.xlsx".
func (s *Server) outputName(upload string) string {
	base := strings.TrimSuffix(upload, path.Ext(upload))
	base = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(base)
	if base == "" || base == "." || base == "/" {
		base = "converted"
	}
	return fmt.Sprintf("%s_test_sheet_%s.xlsx", base, s.now().Format("20060102_150405"))
}
