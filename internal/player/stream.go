package player

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var mimeByExt = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".ts":   "video/mp2t",
}

func detectMimeType(filePath string) string {
	if mt, ok := mimeByExt[strings.ToLower(filepath.Ext(filePath))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// ServeDirectPlay streams the file to the browser with range support.
// http.ServeContent handles Range headers and partial responses.
func ServeDirectPlay(w http.ResponseWriter, r *http.Request, filePath string) {
	f, err := os.Open(filePath)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		http.Error(w, "cannot stat file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", detectMimeType(filePath))
	w.Header().Set("Accept-Ranges", "bytes")
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}
