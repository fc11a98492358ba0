package bot

import (
	"fmt"
	"strings"

	"claimdesk/internal/model"
)

// FormatIngestReport formats the outcome of one ingestion pass.
func FormatIngestReport(res model.IngestResult, err error) string {
	var b strings.Builder
	if err != nil {
		b.WriteString("Ingestion failed\n\n")
	} else {
		b.WriteString("Ingestion finished\n\n")
	}
	fmt.Fprintf(&b, "Scanned: %d\n", res.Scanned)
	fmt.Fprintf(&b, "Inserted: %d", res.Inserted)
	if skipped := res.Scanned - res.Inserted; skipped > 0 {
		fmt.Fprintf(&b, "\nSkipped: %d", skipped)
	}
	if err != nil {
		fmt.Fprintf(&b, "\n\nError: %s", err)
	}
	return b.String()
}
