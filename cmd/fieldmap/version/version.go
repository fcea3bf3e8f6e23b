package version

import (
	"fmt"

	fmversion "github.com/vexsearch/fieldmap/internal/version"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func Run() {
	fmt.Printf("fieldmap version %s\n", Version)
	fmt.Printf("  commit:   %s\n", GitCommit)
	fmt.Printf("  built:    %s\n", BuildTime)
	fmt.Printf("  snapshot: v%d (reads v%d-v%d)\n",
		fmversion.SnapshotFormatVersionCurrent, fmversion.SnapshotFormatVersionMin, fmversion.SnapshotFormatVersionCurrent)
	fmt.Printf("  schema:   v%d\n", fmversion.SchemaFormatVersionCurrent)
}
