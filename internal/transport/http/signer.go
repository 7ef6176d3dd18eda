package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/riyqnn/pulsee/internal/domain"
)

// SignerHeader carries the verified caller identity. Signature verification
// happens upstream; handlers only read the resulting address.
const SignerHeader = "X-Signer-Address"

func signerAddress(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	addr := domain.Address(strings.TrimSpace(r.Header.Get(SignerHeader)))
	if addr == "" {
		writeError(w, http.StatusUnauthorized, codeSignerRequired, "signer address header required")
		return "", false
	}
	return addr, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
