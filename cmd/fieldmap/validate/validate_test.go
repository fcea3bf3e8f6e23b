package validate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli/clitest"
	"github.com/vexsearch/fieldmap/internal/schema"
)

func TestRun(t *testing.T) {
	ws := clitest.New(t, true)

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-config", ws.ConfigPath}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "valid for demo.people (4 fields)") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestRunMismatch(t *testing.T) {
	ws := clitest.New(t, true)

	// drop the bio column from the catalog
	catalog := strings.Replace(clitest.Catalog, `{"name": "bio",  "type": "text"},`, "", 1)
	if err := os.WriteFile(ws.Dir+"/catalog.json", []byte(catalog), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", ws.ConfigPath}, &stdout, &stderr)
	if !errors.Is(err, schema.ErrSchemaMismatch) {
		t.Fatalf("run() error = %v, want ErrSchemaMismatch", err)
	}
	if !strings.Contains(err.Error(), `"bio"`) {
		t.Errorf("error should name the missing column: %v", err)
	}
}
