package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/tclens/tclens-server/constants"
	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/llm"
	"github.com/tclens/tclens-server/internal/pipeline"
)

// handleAnalyze runs the full document analysis. The multipart form carries
// either a "file" part or a "text" field; the file wins when both are sent.
func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Limits.MaxUploadBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.writeError(w, common.NewAppError(common.CodeNoInput,
				"upload exceeds the maximum allowed size", err), 0)
			return
		}
		s.writeError(w, common.NewAppError(common.CodeNoInput,
			"request must be multipart form data with a file or text field", err), 0)
		return
	}

	in := pipeline.Input{
		Mode:          llm.ModeDocument,
		Text:          r.FormValue("text"),
		Identity:      identityFrom(r),
		Limit:         s.limitFor(r),
		ReportedUsage: reportedUsageFrom(r),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			s.writeError(w, common.NewAppError(common.CodeExtractionFailed,
				"failed to read uploaded file", readErr), 0)
			return
		}
		in.FileBytes = data
		in.MediaType = resolveMediaType(header)
	case errors.Is(err, http.ErrMissingFile):
		// text-only request, the pipeline validates presence
	default:
		s.writeError(w, common.NewAppError(common.CodeNoInput, "malformed file upload", err), 0)
		return
	}

	out, err := s.pipe.Run(common.WithIdentity(r.Context(), in.Identity), in)
	if err != nil {
		s.writeError(w, err, out.WordCount)
		return
	}
	s.writeData(w, out.Analysis, out.WordCount)
}

// resolveMediaType prefers the part's declared Content-Type and falls back to
// the filename extension. Browsers commonly send application/octet-stream.
func resolveMediaType(header *multipart.FileHeader) string {
	ct := constants.NormalizeMediaType(header.Header.Get("Content-Type"))
	switch ct {
	case constants.MediaPDF, constants.MediaDOCX, constants.MediaPlain:
		return ct
	}
	if mt := constants.MapExtToMediaType(filepath.Ext(header.Filename)); mt != "" {
		return mt
	}
	return ct
}

func identityFrom(r *http.Request) string {
	if id := r.Header.Get("X-Client-Id"); id != "" {
		return id
	}
	return "anonymous"
}

// limitFor picks the word budget from the signed-in flag. Tier upgrades
// beyond the account budget are configured, not negotiated per request.
func (s *Service) limitFor(r *http.Request) int {
	if r.Header.Get("X-Account") == "true" {
		return s.cfg.Limits.AccountWords
	}
	return s.cfg.Limits.AnonymousWords
}

// reportedUsageFrom reads the client-side counter header. Absent or garbage
// values count as zero; the store remains authoritative.
func reportedUsageFrom(r *http.Request) int {
	v := r.Header.Get("X-Usage-Words")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
