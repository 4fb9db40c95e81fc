package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rbrovko/SwiftLint/internal/observ"
)

// printTimings writes the phase totals summed over all files, then the wall
// time of the whole run.
func printTimings(out io.Writer, reports []observ.Report, files int, wall time.Duration) {
	agg := observ.Aggregate(reports...)
	fmt.Fprint(out, agg.Summary())
	fmt.Fprintf(out, "  %-20s %7.2f ms (%d files)\n", "wall", toMillis(wall), files)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
