package fields

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli/clitest"
)

func TestRun(t *testing.T) {
	ws := clitest.New(t, true)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", ws.ConfigPath, "-records", ws.RecordsPath}, nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, stderr.String())
	}

	wantLines := []string{
		"1\tname\texact\tstored\tCleo",
		"1\tage\tnumeric\t-\t41",
		"1\tbio\ttext\t-\tRuns a small bakery",
		"1\ttags.team\texact\t-\tblue",
		"1\ttags\texact\t-\tteam",
		"3\ttags.team\texact\t-\tred",
	}
	lines := strings.Split(stdout.String(), "\n")
	for _, want := range wantLines {
		found := false
		for _, line := range lines {
			if line == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing line %q in output:\n%s", want, stdout.String())
		}
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "3\tage\t") {
			t.Errorf("record 3 has no age but emitted %q", line)
		}
	}
}

func TestRunReadsStdin(t *testing.T) {
	ws := clitest.New(t, true)

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader(`{"id": "x-1", "cells": {"age": 7}}`)
	if err := run(context.Background(), []string{"-config", ws.ConfigPath}, stdin, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got, want := stdout.String(), "x-1\tage\tnumeric\t-\t7\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunRejectsUnknownCells(t *testing.T) {
	ws := clitest.New(t, true)

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader(`{"id": 5, "cells": {"phone": "555"}}`)
	if err := run(context.Background(), []string{"-config", ws.ConfigPath}, stdin, &stdout, &stderr); err == nil {
		t.Error("expected an error for a cell missing from the catalog")
	}
}

func TestRunMissingSchema(t *testing.T) {
	ws := clitest.New(t, false)

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-config", ws.ConfigPath, "-records", ws.RecordsPath}, nil, &stdout, &stderr); err == nil {
		t.Fatal("expected an error without a stored schema")
	}
}
