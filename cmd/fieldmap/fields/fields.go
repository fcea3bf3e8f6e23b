package fields

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli"
	"github.com/vexsearch/fieldmap/internal/logging"
)

// Run prints the index fields the schema emits for each record, one per
// line: id, field name, kind, stored flag and text.
func Run(args []string) {
	if err := run(context.Background(), args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("fields: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fields", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	recordsPath := fs.String("records", "-", "JSON records file, - for stdin")
	strict := fs.Bool("strict", false, "Fail on the first column the schema cannot map")
	fs.Parse(args)

	env, err := cli.Open(ctx, *configPath, stderr)
	if err != nil {
		return err
	}
	s, err := env.Schema(ctx)
	if err != nil {
		return err
	}
	records, err := env.Records(*recordsPath, stdin)
	if err != nil {
		return err
	}

	for _, rec := range records {
		rctx := logging.ContextWithRecordID(ctx, rec.ID.String())
		emitted, err := s.EmitFieldsContext(rctx, rec.Columns())
		if err != nil {
			if *strict {
				return fmt.Errorf("record %s: %w", rec.ID, err)
			}
			env.Logger.WithContext(rctx).Warn("columns skipped", "error", err)
		}
		for _, f := range emitted {
			stored := "-"
			if f.Stored {
				stored = "stored"
			}
			fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\t%s\n", rec.ID, f.Name, f.Kind, stored, f.Text())
		}
	}
	return nil
}
