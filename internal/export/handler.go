// Package export bundles a project's plate into a downloadable archive: the
// plate document plus a proxy ASCII STL of the placed volumes.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/printdeck/printdeck/internal/auth"
	"github.com/printdeck/printdeck/internal/editor"
	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/project"
	"github.com/printdeck/printdeck/internal/scene"
)

type Handler struct {
	projects *project.Service
	bed      geometry.Box3
}

func NewHandler(projects *project.Service, bed geometry.Box3) *Handler {
	return &Handler{projects: projects, bed: bed}
}

// ExportPlate handles GET /api/projects/{projectId}/export. The response is
// a zip holding plate.json and plate.stl.
func (h *Handler) ExportPlate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	doc, err := h.projects.GetLatestSnapshot(r.Context(), projectID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	ed := editor.New(h.bed)
	if err := ed.LoadDocument(doc); err != nil {
		slog.Error("decode plate document", "project", projectID, "error", err)
		http.Error(w, "corrupt plate document", http.StatusInternalServerError)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "plate"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, name))

	zw := zip.NewWriter(w)

	jsonEntry, err := zw.Create("plate.json")
	if err == nil {
		_, err = jsonEntry.Write(doc)
	}
	if err != nil {
		slog.Error("write plate.json entry", "error", err)
		return
	}

	stlEntry, err := zw.Create("plate.stl")
	if err == nil {
		err = writeProxySTL(stlEntry, name, ed.Volumes())
	}
	if err != nil {
		slog.Error("write plate.stl entry", "error", err)
		return
	}

	if err := zw.Close(); err != nil {
		slog.Error("finalize export archive", "error", err)
		return
	}

	slog.Info("plate exported", "project", projectID, "volumes", ed.Volumes().Len())
}

// writeProxySTL emits each model volume's world-space bounding box as twelve
// triangles. Clients hold the real meshes; the proxy keeps placement
// verifiable without them.
func writeProxySTL(w io.Writer, name string, volumes *scene.VolumeList) error {
	if _, err := fmt.Fprintf(w, "solid %s\n", name); err != nil {
		return err
	}

	for i := 0; i < volumes.Len(); i++ {
		v := volumes.At(i)
		if v.IsAux() || v.Modifier {
			continue
		}
		if err := writeBox(w, v.TransformedBoundingBox()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "endsolid %s\n", name)
	return err
}

// boxFaces lists, per axis-aligned face, the outward normal and the corner
// selector for its two triangles. Corners select Min (0) or Max (1) per axis.
var boxFaces = [6]struct {
	normal  geometry.Vec3
	corners [4][3]int
}{
	{geometry.V3(-1, 0, 0), [4][3]int{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{geometry.V3(1, 0, 0), [4][3]int{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{geometry.V3(0, -1, 0), [4][3]int{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{geometry.V3(0, 1, 0), [4][3]int{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{geometry.V3(0, 0, -1), [4][3]int{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
	{geometry.V3(0, 0, 1), [4][3]int{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
}

func writeBox(w io.Writer, box geometry.Box3) error {
	corner := func(sel [3]int) geometry.Vec3 {
		pick := func(axis int, min, max float64) float64 {
			if sel[axis] == 0 {
				return min
			}
			return max
		}
		return geometry.V3(
			pick(0, box.Min.X, box.Max.X),
			pick(1, box.Min.Y, box.Max.Y),
			pick(2, box.Min.Z, box.Max.Z),
		)
	}

	for _, face := range boxFaces {
		quad := [4]geometry.Vec3{
			corner(face.corners[0]),
			corner(face.corners[1]),
			corner(face.corners[2]),
			corner(face.corners[3]),
		}
		for _, tri := range [2][3]geometry.Vec3{
			{quad[0], quad[1], quad[2]},
			{quad[0], quad[2], quad[3]},
		} {
			if err := writeFacet(w, face.normal, tri); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFacet(w io.Writer, n geometry.Vec3, tri [3]geometry.Vec3) error {
	if _, err := fmt.Fprintf(w, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z); err != nil {
		return err
	}
	for _, p := range tri {
		if _, err := fmt.Fprintf(w, "      vertex %g %g %g\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "    endloop\n  endfacet\n")
	return err
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case err == project.ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case err == project.ErrForbidden, err == project.ErrNotMember:
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		slog.Error("export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
