// Package asset stores uploaded mesh files and serves them back to clients.
package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/printdeck/printdeck/internal/typeid"
)

const maxUploadSize = 64 << 20 // 64MB

// binary STL: 80-byte header, uint32 facet count, 50 bytes per facet.
const (
	stlHeaderSize = 84
	stlFacetSize  = 50
)

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Triangles int    `json:"triangles"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
}

// Handler serves mesh upload and retrieval endpoints.
type Handler struct {
	dir string // directory to store mesh files
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create mesh dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Upload handles POST /meshes/upload (multipart form with "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 64MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	triangles, err := ValidateSTL(data)
	if err != nil {
		http.Error(w, "invalid STL: "+err.Error(), http.StatusBadRequest)
		return
	}

	meshID := typeid.NewMeshID()
	filename := meshID + ".stl"
	filePath := filepath.Join(h.dir, filename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		slog.Error("write mesh file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		ID:        meshID,
		URL:       fmt.Sprintf("/meshes/%s", filename),
		Triangles: triangles,
		Name:      header.Filename,
		Size:      int64(len(data)),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve returns an http.Handler that serves stored mesh files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/meshes/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Mesh IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Delete removes a mesh file from disk (for cleanup).
func (h *Handler) Delete(meshID string) error {
	path := filepath.Join(h.dir, meshID+".stl")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("mesh not found: %s", meshID)
	}
	return nil
}

// ValidateSTL checks that data is a well-formed binary or ASCII STL file
// and returns the triangle count.
func ValidateSTL(data []byte) (int, error) {
	if looksBinary(data) {
		count := binary.LittleEndian.Uint32(data[80:84])
		want := stlHeaderSize + int(count)*stlFacetSize
		if len(data) != want {
			return 0, fmt.Errorf("size mismatch: %d facets need %d bytes, got %d", count, want, len(data))
		}
		if count == 0 {
			return 0, fmt.Errorf("mesh has no facets")
		}
		return int(count), nil
	}

	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		count := bytes.Count(data, []byte("facet normal"))
		if count == 0 {
			return 0, fmt.Errorf("mesh has no facets")
		}
		return count, nil
	}

	return 0, fmt.Errorf("not an STL file")
}

// looksBinary distinguishes binary STL from ASCII. Binary files can start
// with "solid" too, so the facet-count arithmetic is the deciding check.
func looksBinary(data []byte) bool {
	if len(data) < stlHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	return len(data) == stlHeaderSize+int(count)*stlFacetSize
}
