package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli"
	fmschema "github.com/vexsearch/fieldmap/internal/schema"
)

// Run dispatches "schema put" and "schema show".
func Run(args []string) {
	if err := run(context.Background(), args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("schema: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("expected put or show")
	}
	switch args[0] {
	case "put":
		return put(ctx, args[1:], stdin, stdout, stderr)
	case "show":
		return show(ctx, args[1:], stdout, stderr)
	default:
		return fmt.Errorf("unknown schema command %q", args[0])
	}
}

// put builds the definition before storing it, so a broken schema never
// reaches the store.
func put(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("schema put", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	file := fs.String("file", "-", "JSON schema definition, - for stdin")
	fs.Parse(args)

	var (
		data []byte
		err  error
	)
	if *file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(*file)
	}
	if err != nil {
		return fmt.Errorf("failed to read schema definition: %w", err)
	}

	env, err := cli.Open(ctx, *configPath, stderr)
	if err != nil {
		return err
	}
	s, err := fmschema.FromJSON(data, fmschema.WithName(env.Config.SchemaKey), fmschema.WithLogger(env.Logger))
	if err != nil {
		return err
	}
	if err := fmschema.Save(ctx, env.Store, env.Config.SchemaKey, s); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "stored schema %s (%d fields)\n", env.Config.SchemaKey, s.Len())
	return nil
}

func show(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("schema show", flag.ExitOnError)
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
	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(stdout)
	return err
}
