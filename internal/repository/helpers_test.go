package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestBuildTSQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single word", "Hello", "hello"},
		{"multiple words", "hello  world", "hello | world"},
		{"strips operators", "foo & bar | !baz", "foo | bar | baz"},
		{"quotes and colons", `it's "done":*`, "it | s | done"},
		{"unicode letters", "Café Über", "café | über"},
		{"digits", "room 42", "room | 42"},
		{"nothing searchable", "&& || !!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, buildTSQuery(tt.input))
		})
	}
}

func TestParseID(t *testing.T) {
	req := require.New(t)

	id, ok := parseID("6f1c1a52-7e4b-4d8a-9a55-2b9f0c7e3d11")
	req.True(ok)
	req.Equal("6f1c1a52-7e4b-4d8a-9a55-2b9f0c7e3d11", id.String())

	_, ok = parseID("not-a-uuid")
	req.False(ok)

	_, ok = parseID("")
	req.False(ok)
}

func TestParseObjectID(t *testing.T) {
	req := require.New(t)

	oid, ok := parseObjectID("65f2a1b3c4d5e6f708192a3b")
	req.True(ok)
	req.Equal("65f2a1b3c4d5e6f708192a3b", oid.Hex())

	_, ok = parseObjectID("65f2a1b3")
	req.False(ok)
}

func TestIsUniqueViolation(t *testing.T) {
	req := require.New(t)

	req.True(isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	req.True(isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	req.False(isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	req.False(isUniqueViolation(errors.New("duplicate key")))
}

func TestExactNameRegex(t *testing.T) {
	re := exactNameRegex("a.b+(c)")
	require.Equal(t, `^a\.b\+\(c\)$`, re.Pattern)
	require.Equal(t, "i", re.Options)
}
