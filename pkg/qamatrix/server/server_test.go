package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/qamatrix-go/internal/pptxtest"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	opts := qamatrix.DefaultOptions()
	opts.Legacy = nil
	s := New(qamatrix.NewConverter(opts), cfg, nil)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func upload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		w, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func sampleDeck() []byte {
	return pptxtest.Build(pptxtest.Deck{Slides: []pptxtest.Slide{{
		Title: "This is the compliance matrix that has been applied to Pilot",
		Shapes: []pptxtest.Shape{pptxtest.Table(
			pptxtest.Row("Flag", "Approved", "Not Approved"),
			pptxtest.Row("Eligible?", "Has Answered Yes", "Has Answered No or Question Unanswered"),
		)},
	}}})
}

func TestConvertEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	rec := serve(s, upload(t, "file", "Q3 matrix.pptx", sampleDeck()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Q3 matrix_test_sheet_20260102_030405.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "0", rec.Header().Get("X-Conversion-Warnings"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Pilot", "Lookups"}, f.GetSheetList())
	v, err := f.GetCellValue("Pilot", "C9")
	require.NoError(t, err)
	assert.Equal(t, "Yes", v)
}

func TestConvertEndpointErrors(t *testing.T) {
	small := DefaultConfig()
	small.MaxUploadBytes = 1024

	tests := []struct {
		name     string
		cfg      Config
		req      func(t *testing.T) *http.Request
		status   int
		contains string
	}{
		{
			name:     "missing file field",
			cfg:      DefaultConfig(),
			req:      func(t *testing.T) *http.Request { return upload(t, "", "", nil) },
			status:   http.StatusBadRequest,
			contains: "No file uploaded",
		},
		{
			name:     "wrong extension",
			cfg:      DefaultConfig(),
			req:      func(t *testing.T) *http.Request { return upload(t, "file", "notes.docx", []byte("x")) },
			status:   http.StatusBadRequest,
			contains: "Only .pptx or .ppt files are supported",
		},
		{
			name:     "empty upload",
			cfg:      DefaultConfig(),
			req:      func(t *testing.T) *http.Request { return upload(t, "file", "deck.pptx", nil) },
			status:   http.StatusBadRequest,
			contains: "Uploaded file is empty.",
		},
		{
			name:     "not a presentation",
			cfg:      DefaultConfig(),
			req:      func(t *testing.T) *http.Request { return upload(t, "file", "deck.pptx", []byte("plain text")) },
			status:   http.StatusBadRequest,
			contains: "unsupported presentation format",
		},
		{
			name:     "legacy without converter",
			cfg:      DefaultConfig(),
			req:      func(t *testing.T) *http.Request { return upload(t, "file", "deck.ppt", []byte("legacy")) },
			status:   http.StatusBadRequest,
			contains: "LibreOffice",
		},
		{
			name:     "too large",
			cfg:      small,
			req:      func(t *testing.T) *http.Request { return upload(t, "file", "deck.pptx", bytes.Repeat([]byte("a"), 2048)) },
			status:   http.StatusRequestEntityTooLarge,
			contains: "exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.cfg)
			rec := serve(s, tt.req(t))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, detail(t, rec), tt.contains)
		})
	}
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = serve(s, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestOutputName(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	tests := []struct {
		upload   string
		expected string
	}{
		{"deck.pptx", "deck_test_sheet_20260102_030405.xlsx"},
		{"old.deck.ppt", "old.deck_test_sheet_20260102_030405.xlsx"},
		{".pptx", "converted_test_sheet_20260102_030405.xlsx"},
		{`say "hi".pptx`, "say hi_test_sheet_20260102_030405.xlsx"},
	}
	for _, tt := range tests {
		if result := s.outputName(tt.upload); result != tt.expected {
			t.Errorf("outputName(%q) = %q, expected %q", tt.upload, result, tt.expected)
		}
	}

	assert.Equal(t, "deck.pptx", uploadName(`C:\Users\qa\deck.pptx`))
}
