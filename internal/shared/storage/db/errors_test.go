package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "user_accounts_email_key"}

	if !IsUniqueViolation(fmt.Errorf("insert: %w", dup), "") {
		t.Fatalf("expected wrapped unique violation to match")
	}
	if !IsUniqueViolation(dup, "user_accounts_email_key") {
		t.Fatalf("expected named constraint to match")
	}
	if IsUniqueViolation(dup, "other_key") {
		t.Fatalf("did not expect other constraint to match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("boom"), "") {
		t.Fatalf("plain errors never match")
	}
}
