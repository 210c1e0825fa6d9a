package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

// The storefront consumes bare payloads on success and a flat
// {"error": "<message>"} object on failure; no envelopes.

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}

// WriteHTML serves a rendered fragment.
func WriteHTML(w http.ResponseWriter, status int, fragment string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(fragment)); err != nil {
		log.Printf(`{"level":"error","msg":"failed to write fragment","err":"%v"}`, err)
	}
}

// WriteError maps a domain error to its HTTP status and serializes the
// failure body. The concrete message is surfaced to the caller; only
// internal errors hide behind the generic public message. The full
// chain, including upstream status and body when present, is logged
// here exactly once.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != pkgerrors.CodeInternal {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":       dump.TopMessage,
			"error_code":  dump.Code,
			"error_chain": dump.Chain,
		}
		if dump.UpstreamEndpoint != "" {
			fields["upstream_endpoint"] = dump.UpstreamEndpoint
			fields["upstream_status"] = dump.UpstreamStatus
			fields["upstream_body"] = dump.UpstreamBody
		}

		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	WriteJSON(w, meta.HTTPStatus, map[string]string{"error": msg})
}
