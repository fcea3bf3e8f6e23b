package validate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli"
)

// Run checks the configured schema against the table catalog.
func Run(args []string) {
	if err := run(context.Background(), args, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("validate: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	env, err := cli.Open(ctx, *configPath, stderr)
	if err != nil {
		return err
	}
	s, err := env.Schema(ctx)
	if err != nil {
		return err
	}
	table, err := env.Table()
	if err != nil {
		return err
	}
	if err := s.Validate(table); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "schema %s is valid for %s (%d fields)\n", s.Name(), table.QualifiedName(), s.Len())
	return nil
}
