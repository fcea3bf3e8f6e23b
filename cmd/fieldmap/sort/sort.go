package sort

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli"
	"github.com/vexsearch/fieldmap/internal/sorting"
)

// Run orders records by the -by criteria and prints their ids.
func Run(args []string) {
	if err := run(context.Background(), args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("sort: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sort", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	recordsPath := fs.String("records", "-", "JSON records file, - for stdin")
	by := fs.String("by", "", `Sort criteria, e.g. [["age","desc"],"name"]`)
	fs.Parse(args)

	srt, err := sorting.ParseSort([]byte(*by))
	if err != nil {
		return err
	}

	env, err := cli.Open(ctx, *configPath, stderr)
	if err != nil {
		return err
	}
	s, err := env.Schema(ctx)
	if err != nil {
		return err
	}
	rc, err := sorting.NewRowComparator(s, srt)
	if err != nil {
		return err
	}
	records, err := env.Records(*recordsPath, stdin)
	if err != nil {
		return err
	}

	sorting.SortRows(rc, records)
	env.Logger.Debug("records sorted", "count", len(records), "sort", srt.String())
	for _, rec := range records {
		fmt.Fprintln(stdout, rec.ID)
	}
	return nil
}
