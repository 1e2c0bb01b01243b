package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garrettladley/titohook/internal/tito"
)

func TestSignCmd(t *testing.T) {
	t.Parallel()

	body := []byte(`{"slug":"XYZ"}`)
	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{name: "file", args: []string{"--secret", "abc123", path}},
		{name: "stdin", args: []string{"--secret", "abc123", "-"}, stdin: string(body)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			cmd := signCmd()
			cmd.SetArgs(tt.args)
			cmd.SetIn(strings.NewReader(tt.stdin))
			cmd.SetOut(&out)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			want := tito.HeaderSignature + ": " + tito.Sign("abc123", body) + "\n"
			if got := out.String(); got != want {
				t.Errorf("output = %q, want %q", got, want)
			}
		})
	}
}

func TestSignCmdMissingFile(t *testing.T) {
	t.Parallel()

	cmd := signCmd()
	cmd.SetArgs([]string{"--secret", "abc123", filepath.Join(t.TempDir(), "missing.json")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() with missing file returned nil error")
	}
}
