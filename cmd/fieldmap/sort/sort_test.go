package sort

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli/clitest"
	"github.com/vexsearch/fieldmap/internal/sorting"
)

func TestRun(t *testing.T) {
	ws := clitest.New(t, true)

	tests := []struct {
		name string
		by   string
		want string
	}{
		{"age ascending, missing last", `[["age", "asc"]]`, "2\n1\n3\n"},
		{"age descending, missing first", `[["age", "desc"]]`, "3\n1\n2\n"},
		{"map entry then id order", `["tags.team"]`, "1\n3\n2\n"},
		{"object form", `{"fields": [{"field": "bio"}]}`, "2\n3\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := []string{"-config", ws.ConfigPath, "-records", ws.RecordsPath, "-by", tt.by}
			if err := run(context.Background(), args, nil, &stdout, &stderr); err != nil {
				t.Fatalf("run() error = %v\nstderr: %s", err, stderr.String())
			}
			if got := stdout.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	ws := clitest.New(t, true)

	tests := []struct {
		name    string
		by      string
		wantErr error
	}{
		{"no criteria", ``, sorting.ErrInvalidSort},
		{"bad direction", `[["age", "up"]]`, sorting.ErrInvalidSort},
		{"unmapped field", `["phone"]`, sorting.ErrUnmappedSortField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := []string{"-config", ws.ConfigPath, "-records", ws.RecordsPath, "-by", tt.by}
			if err := run(context.Background(), args, nil, &stdout, &stderr); !errors.Is(err, tt.wantErr) {
				t.Errorf("run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
