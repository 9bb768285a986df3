package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
)

const fallbackBody = `{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}` + "\n"

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Success{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError maps err onto its public envelope. Untyped errors become
// INTERNAL. Server-side failures are logged at error with the full chain,
// client mistakes at debug.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	problem := Problem{Code: string(typed.Code()), Message: meta.PublicMessage}
	if m := typed.Message(); meta.ExposeMessage && m != "" {
		problem.Message = m
	}
	if meta.DetailsAllowed {
		problem.Details = typed.Details()
	}

	ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	if meta.HTTPStatus >= http.StatusInternalServerError {
		logg.Error(ctx, "request.error", err)
	} else {
		logg.Debug(ctx, "request.rejected")
	}

	if meta.Retryable {
		w.Header().Set("Cache-Control", "no-store")
	}
	writeJSON(w, meta.HTTPStatus, Failure{Error: problem})
}

// writeJSON encodes before writing so an unencodable payload still yields a
// well-formed 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(fallbackBody)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
