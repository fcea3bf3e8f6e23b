package main

import (
	"fmt"
	"os"

	"github.com/vexsearch/fieldmap/cmd/fieldmap/fields"
	"github.com/vexsearch/fieldmap/cmd/fieldmap/index"
	"github.com/vexsearch/fieldmap/cmd/fieldmap/schema"
	sortcmd "github.com/vexsearch/fieldmap/cmd/fieldmap/sort"
	"github.com/vexsearch/fieldmap/cmd/fieldmap/validate"
	"github.com/vexsearch/fieldmap/cmd/fieldmap/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "fields":
		fields.Run(os.Args[2:])
	case "sort":
		sortcmd.Run(os.Args[2:])
	case "validate":
		validate.Run(os.Args[2:])
	case "index":
		index.Run(os.Args[2:])
	case "schema":
		schema.Run(os.Args[2:])
	case "version":
		version.Run()
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fieldmap - schema-driven field mapping and row ordering

Usage:
  fieldmap <command> [options]

Commands:
  schema    Store (put) or print (show) the schema definition
  validate  Check the schema against the table catalog
  fields    Print the index fields emitted for each record
  sort      Order records by a list of fields
  index     Build an index snapshot (build) or query it (query)
  version   Print version information
  help      Show this help message

Run 'fieldmap <command> --help' for more information on a command.`)
}
