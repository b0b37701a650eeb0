package frames

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageRequest(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/image?path="+url.QueryEscape(path), nil)
	rec := httptest.NewRecorder()
	h.image(rec, req)
	return rec
}

func TestImageServesFileInsideDataDir(t *testing.T) {
	dataDir := t.TempDir()
	frame := filepath.Join(dataDir, "frame.jpg")
	require.NoError(t, os.WriteFile(frame, []byte("jpg bytes"), 0644))

	h := NewHandler(nil, nil, dataDir)
	rec := imageRequest(t, h, frame)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpg bytes", rec.Body.String())
}

func TestImageRejectsPathOutsideDataDir(t *testing.T) {
	h := NewHandler(nil, nil, t.TempDir())
	rec := imageRequest(t, h, "/etc/passwd")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestImageRejectsSymlinkEscape(t *testing.T) {
	dataDir := t.TempDir()
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0644))

	// A link inside the data dir pointing outside must not pass the
	// containment check.
	link := filepath.Join(dataDir, "frame.jpg")
	require.NoError(t, os.Symlink(secret, link))

	h := NewHandler(nil, nil, dataDir)
	rec := imageRequest(t, h, link)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestImageMissingFile(t *testing.T) {
	dataDir := t.TempDir()
	h := NewHandler(nil, nil, dataDir)
	rec := imageRequest(t, h, filepath.Join(dataDir, "nope.jpg"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImageMissingParam(t *testing.T) {
	h := NewHandler(nil, nil, t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/image", nil)
	rec := httptest.NewRecorder()
	h.image(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
