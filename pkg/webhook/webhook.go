// Package webhook is the HTTP face of the sync engine.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/types"
)

const maxPayload = 25 << 20

// New returns a handler.  If secret is not empty every hook must be
// signed with it.
func New(l hclog.Logger, s Syncer, r Reporter, secret string) *Handler {
	x := Handler{
		l:        l.Named("webhook"),
		syncer:   s,
		reporter: r,
		secret:   []byte(secret),
	}
	return &x
}

// HTTPEntry provides the mountpoint for this service into the shared
// webserver routing tree.
func (h *Handler) HTTPEntry() chi.Router {
	r := chi.NewRouter()

	r.Post("/hook", h.httpHook)
	r.Get("/status", h.httpStatusAll)
	r.Get("/status/*", h.httpStatusRepo)

	return r
}

func (h *Handler) httpHook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		h.httpJSONError(w, http.StatusBadRequest, err)
		return
	}

	if len(h.secret) > 0 && !h.validSignature(r.Header.Get("X-Hub-Signature-256"), body) {
		h.l.Warn("Rejected hook with bad signature", "remote", r.RemoteAddr)
		h.httpJSONError(w, http.StatusUnauthorized, errors.New("signature mismatch"))
		return
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		h.httpJSONError(w, http.StatusBadRequest, err)
		return
	}

	if r.Header.Get("X-GitHub-Event") == "ping" {
		h.l.Info("Received ping", "repo", p.Repository.FullName, "zen", p.Zen)
		w.WriteHeader(http.StatusOK)
		return
	}

	if p.Repository.FullName == "" || p.RemoteURL() == "" {
		h.httpJSONError(w, http.StatusBadRequest, errors.New("payload does not identify a repository"))
		return
	}

	// A slow clone outlives the hosting provider's delivery timeout;
	// a hung-up client must not abort it half way.
	ctx := context.WithoutCancel(r.Context())
	o := h.syncer.Handle(ctx, p.Repository.FullName, p.RemoteURL())

	status := http.StatusOK
	if o.Result == types.ConfigurationError {
		status = http.StatusBadRequest
	}
	h.writeJSON(w, status, o)
}

func (h *Handler) httpStatusAll(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.reporter.All())
}

func (h *Handler) httpStatusRepo(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(chi.URLParam(r, "*"), "/")
	o, ok := h.reporter.Latest(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) validSignature(header string, body []byte) bool {
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(h.secret, body))
}

// Sign computes the HMAC that signs body with secret, as carried in
// X-Hub-Signature-256 after the "sha256=" prefix.
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.l.Warn("Error encoding response", "error", err)
	}
}

// httpJSONError returns an error as JSON.
func (h *Handler) httpJSONError(w http.ResponseWriter, status int, err error) {
	out := struct {
		Error string
	}{
		Error: err.Error(),
	}
	h.writeJSON(w, status, out)
}
