package server

import (
	"encoding/json"
	"net/http"

	"github.com/tclens/tclens-server/internal/common"
)

// envelope is the uniform response shape for every endpoint. Data is set on
// success; Error, Details and Code on failure. WordCount is populated
// whenever extraction got far enough to count, success or not.
type envelope struct {
	OK        bool   `json:"ok"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
	Code      string `json:"code,omitempty"`
	WordCount int    `json:"wordCount"`
}

// statusFor maps a machine code to its HTTP status. Unknown codes are
// treated as internal.
func statusFor(code string) int {
	switch code {
	case common.CodeNoInput,
		common.CodeUnsupportedType,
		common.CodeEmptyDocument,
		common.CodeExtractionFailed,
		common.CodeContentTooShort:
		return http.StatusBadRequest
	case common.CodeQuotaExceeded:
		return http.StatusForbidden
	case common.CodeUpstreamThrottled:
		return http.StatusTooManyRequests
	case common.CodeUpstreamUnavailable,
		common.CodeUpstreamEmpty,
		common.CodeMalformedJSON,
		common.CodeInvalidEnum:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("http.encode_failed", "error", err)
	}
}

func (s *Service) writeData(w http.ResponseWriter, data any, wordCount int) {
	s.writeJSON(w, http.StatusOK, envelope{OK: true, Data: data, WordCount: wordCount})
}

// writeBare renders a success payload without the envelope. The extension
// and drafting routes return their result objects directly; clients read
// fields like trigger_recommendation straight off the decoded body.
func (s *Service) writeBare(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("http.encode_failed", "error", err)
	}
}

// writeError renders any error as the failure envelope. Cause details are
// included only for upstream and internal failures where they help debugging;
// input errors are already self-explanatory.
func (s *Service) writeError(w http.ResponseWriter, err error, wordCount int) {
	appErr, ok := common.AsAppError(err)
	if !ok {
		appErr = common.NewAppError(common.CodeInternal, "internal error", err)
	}
	status := statusFor(appErr.Code)

	var details string
	if status >= http.StatusInternalServerError && appErr.Cause != nil {
		details = appErr.Cause.Error()
	}

	s.writeJSON(w, status, envelope{
		OK:        false,
		Error:     appErr.Message,
		Details:   details,
		Code:      appErr.Code,
		WordCount: wordCount,
	})
}
