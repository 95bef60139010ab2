package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
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
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
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
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
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

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "no entry"))
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if !HasCode(err, CodeNotFound) {
		t.Fatalf("HasCode should match wrapped typed error")
	}
	if HasCode(stdErrors.New("plain"), CodeNotFound) {
		t.Fatalf("HasCode should not match untyped error")
	}
}

func TestDumpCapturesChainAndDriverDetails(t *testing.T) {
	sqliteErr := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	dump := Dump(Wrap(CodeConflict, sqliteErr, "insert cart line"))
	if dump.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %v", dump.Chain)
	}
	if dump.SQLiteCode != int(sqlite3.ErrConstraint) || dump.SQLiteExtendedCode != int(sqlite3.ErrConstraintUnique) {
		t.Fatalf("unexpected sqlite codes %+v", dump)
	}

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_cart_items_product_id", TableName: "cart_items"}
	dump = Dump(fmt.Errorf("insert: %w", pgErr))
	if dump.PGCode != "23505" || dump.PGConstraint != "idx_cart_items_product_id" || dump.PGTable != "cart_items" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}

	fields := dump.Fields()
	if fields["pg_code"] != "23505" {
		t.Fatalf("expected pg fields in log view, got %v", fields)
	}
	if _, ok := fields["sqlite_code"]; ok {
		t.Fatalf("sqlite fields should be omitted for pg errors, got %v", fields)
	}

	if got := Dump(nil); got.TopMessage != "" || got.Chain != nil {
		t.Fatalf("expected empty dump for nil error, got %+v", got)
	}
}

func TestPublicMessageAndDetails(t *testing.T) {
	notFound := New(CodeNotFound, "Product not found").WithDetails(map[string]any{"id": "9"})
	if got := notFound.PublicMessage(); got != "Product not found" {
		t.Fatalf("expected exposed message, got %q", got)
	}
	if notFound.PublicDetails() != nil {
		t.Fatalf("not found details must stay private")
	}
	if notFound.Status() != http.StatusNotFound {
		t.Fatalf("unexpected status %d", notFound.Status())
	}

	internal := Wrap(CodeInternal, stdErrors.New("disk full"), "insert cart line")
	if got := internal.PublicMessage(); got != "internal server error" {
		t.Fatalf("internal messages must be hidden, got %q", got)
	}

	if got := Normalize(stdErrors.New("plain")); got.Code() != CodeInternal {
		t.Fatalf("expected untyped error to normalize as internal, got %s", got.Code())
	}
	if got := Normalize(fmt.Errorf("wrapped: %w", notFound)); got != notFound {
		t.Fatalf("expected typed error to be returned as-is")
	}
}
