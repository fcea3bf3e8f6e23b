package index

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/internal/cli"
	fmindex "github.com/vexsearch/fieldmap/internal/index"
	"github.com/vexsearch/fieldmap/internal/mapper"
	"github.com/vexsearch/fieldmap/internal/sorting"
	"github.com/vexsearch/fieldmap/internal/value"
)

// Run dispatches "index build" and "index query".
func Run(args []string) {
	if err := run(context.Background(), args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("index: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("expected build or query")
	}
	switch args[0] {
	case "build":
		return build(ctx, args[1:], stdin, stdout, stderr)
	case "query":
		return query(ctx, args[1:], stdout, stderr)
	default:
		return fmt.Errorf("unknown index command %q", args[0])
	}
}

func build(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("index build", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	recordsPath := fs.String("records", "-", "JSON records file, - for stdin")
	strict := fs.Bool("strict", false, "Fail when any column cannot be mapped")
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

	b := fmindex.NewBuilder(s, fmindex.WithBuilderLogger(env.Logger))
	clean, err := b.AddAll(ctx, records)
	if err != nil {
		if *strict || ctx.Err() != nil {
			return err
		}
		env.Logger.Warn("some columns were not indexed", "error", err)
	}

	if err := fmindex.Save(ctx, env.Store, env.Config.SnapshotKey, b.Index()); err != nil {
		return err
	}
	env.Logger.Info("index saved", "key", env.Config.SnapshotKey, "documents", b.Index().Len(), "clean", clean)
	fmt.Fprintf(stdout, "indexed %d records (%d clean) into %s\n", len(records), clean, env.Config.SnapshotKey)
	return nil
}

func query(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("index query", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	field := fs.String("field", "", "Field to match")
	raw := fs.String("value", "", "Value to match; parsed as JSON when possible")
	lo := fs.Float64("min", math.Inf(-1), "Lower bound of a numeric range")
	hi := fs.Float64("max", math.Inf(1), "Upper bound of a numeric range")
	by := fs.String("sort", "", `Sort criteria, e.g. [["age","desc"]]`)
	limit := fs.Int("limit", 0, "Maximum number of ids to print (0 for all)")
	fs.Parse(args)

	env, err := cli.Open(ctx, *configPath, stderr)
	if err != nil {
		return err
	}
	s, err := env.Schema(ctx)
	if err != nil {
		return err
	}
	idx, err := fmindex.Load(ctx, env.Store, env.Config.SnapshotKey, s)
	if err != nil {
		return err
	}

	var matched *roaring.Bitmap
	switch {
	case *field == "":
		matched = idx.All()
	case *raw != "":
		matched, err = idx.Term(*field, parseValue(*raw))
	default:
		matched, err = idx.Range(*field, *lo, *hi)
	}
	if err != nil {
		return err
	}

	var keys []mapper.SortKey
	if *by != "" {
		srt, err := sorting.ParseSort([]byte(*by))
		if err != nil {
			return err
		}
		rc, err := sorting.NewRowComparator(s, srt)
		if err != nil {
			return err
		}
		keys = rc.SortKeys()
	}

	docs := idx.SortDocs(matched.ToArray(), keys)
	if *limit > 0 && len(docs) > *limit {
		docs = docs[:*limit]
	}
	for _, id := range idx.IDs(docs) {
		fmt.Fprintln(stdout, id)
	}
	return nil
}

// parseValue reads s as a JSON scalar, falling back to the plain string.
func parseValue(s string) value.Value {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(s))))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return value.String(s)
	}
	out, err := value.FromAny(v)
	if err != nil {
		return value.String(s)
	}
	return out
}
