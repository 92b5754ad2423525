// Command gregor-scan walks a directory of GREGOR FITS files and records
// every loadable (file, channel) pair in the observation catalog.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/helio-data/sunprep/internal/catalog"
	"github.com/helio-data/sunprep/internal/gregor"
	"github.com/helio-data/sunprep/internal/version"
)

var (
	dbPath      = flag.String("db", "observations.db", "Catalog database path")
	dir         = flag.String("dir", "", "Directory to scan")
	debug       = flag.Bool("debug", false, "Log every scanned file")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	store, err := catalog.Open(*dbPath)
	if err != nil {
		log.Fatalf("[Scan] %v", err)
	}
	defer store.Close()

	scanner := &catalog.Scanner{
		Store:    store,
		Channels: []gregor.Channel{gregor.GBand, gregor.Continuum},
		Debug:    *debug,
	}
	scanID, n, err := scanner.ScanDir(*dir)
	if err != nil {
		log.Fatalf("[Scan] %v", err)
	}
	log.Printf("[Scan] run %s complete: %d observations in %s", scanID, n, *dbPath)
}
