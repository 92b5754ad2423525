// Command gregor-report renders an HTML overview of a scanned observation
// catalog.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/helio-data/sunprep/internal/catalog"
	"github.com/helio-data/sunprep/internal/report"
	"github.com/helio-data/sunprep/internal/version"
)

var (
	dbPath      = flag.String("db", "observations.db", "Catalog database path")
	outPath     = flag.String("out", "dataset-report.html", "Report output path")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}

	store, err := catalog.Open(*dbPath)
	if err != nil {
		log.Fatalf("[Report] %v", err)
	}
	defer store.Close()

	if err := report.Write(store, *outPath); err != nil {
		log.Fatalf("[Report] %v", err)
	}
	log.Printf("[Report] wrote %s", *outPath)
}
