package repos

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, c := range cases {
		if got := IsUniqueViolation(c.err); got != c.want {
			t.Fatalf("IsUniqueViolation(%s) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"sqlite deadlock message", errors.New("database deadlock"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("IsRetryable(%s) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsRetryableUnwrapsStack(t *testing.T) {
	err := fmt.Errorf("store behavior: %w", &pgconn.PgError{Code: "40001"})
	if !IsRetryable(err) {
		t.Fatalf("wrapped serialization failure must be retryable")
	}
	if IsRetryable(fmt.Errorf("store behavior: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatalf("wrapped unique violation must not be retryable")
	}
	if !IsUniqueViolation(fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatalf("wrapped unique violation must be detected")
	}
}
