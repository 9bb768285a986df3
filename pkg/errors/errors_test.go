package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodePriceCompute, status: http.StatusBadRequest, publicMsg: "order price could not be computed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	detailed := base.WithDetails(detail)
	if detailed.Details() == nil {
		t.Fatalf("details should be preserved")
	}
	if base.Details() != nil {
		t.Fatalf("WithDetails must not mutate the receiver")
	}
	if got := Newf(CodeNotFound, "locker %d", 7).Message(); got != "locker 7" {
		t.Fatalf("unexpected Newf message %q", got)
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestIsMatchesCodeSentinels(t *testing.T) {
	err := fmt.Errorf("loading machine: %w", Wrap(CodeNotFound, stdErrors.New("record not found"), "machine 4"))
	if !stdErrors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected code sentinel to match")
	}
	if stdErrors.Is(err, New(CodeConflict, "")) {
		t.Fatal("different code must not match")
	}
	if stdErrors.Is(err, New(CodeNotFound, "machine 4")) {
		t.Fatal("sentinels with a message must not match by code")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"nil":        {nil, false},
		"untyped":    {stdErrors.New("boom"), true},
		"validation": {New(CodeValidation, "bad"), false},
		"dependency": {fmt.Errorf("ctx: %w", New(CodeDependency, "redis")), true},
	}
	for name, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryable = %v, want %v", name, got, tc.want)
		}
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCodeFollowsWrappedChain(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	outer := fmt.Errorf("loading order: %w", inner)
	if !IsCode(outer, CodeNotFound) {
		t.Fatalf("expected IsCode to find NOT_FOUND through wrapping")
	}
	if IsCode(outer, CodeConflict) {
		t.Fatalf("unexpected CONFLICT match")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("untyped errors should not match")
	}
}

func TestDumpCapturesChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("connection reset"), "insert order")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}

func TestDumpReadsPostgresDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_cities_name", TableName: "cities"}
	dump := Dump(Wrap(CodeConflict, fmt.Errorf("insert city: %w", pgErr), "city exists"))

	if dump.Postgres == nil {
		t.Fatalf("expected postgres info")
	}
	if dump.Postgres.Code != "23505" || dump.Postgres.Constraint != "idx_cities_name" {
		t.Fatalf("unexpected postgres info %+v", dump.Postgres)
	}

	fields := dump.Fields()
	if fields["pg_table"] != "cities" {
		t.Fatalf("expected pg_table field, got %v", fields["pg_table"])
	}
	if _, ok := Dump(stdErrors.New("plain")).Fields()["pg_code"]; ok {
		t.Fatalf("plain errors should not carry pg fields")
	}
}
