// Command gregor-convert runs the full preprocessing pipeline on one
// GREGOR instrument file: load + deinterleave, block-reduce, pad to the
// target shape, stretch-normalize into [-1,1], stack frames and replace
// the no-data sentinel. The result is written as a CBOR array alongside
// optional quicklook renderings.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/helio-data/sunprep/internal/config"
	"github.com/helio-data/sunprep/internal/cube"
	"github.com/helio-data/sunprep/internal/framelog"
	"github.com/helio-data/sunprep/internal/geom"
	"github.com/helio-data/sunprep/internal/gregor"
	"github.com/helio-data/sunprep/internal/pipeline"
	"github.com/helio-data/sunprep/internal/quicklook"
	"github.com/helio-data/sunprep/internal/stretch"
	"github.com/helio-data/sunprep/internal/version"
)

var (
	inFile      = flag.String("in", "", "GREGOR FITS file to convert")
	outDir      = flag.String("out", "converted", "Output directory")
	configFile  = flag.String("config", "", "Optional prep config JSON")
	channel     = flag.String("channel", "", "Channel override: gband or continuum")
	quick       = flag.Bool("quicklook", false, "Also write preview and histogram PNGs")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *inFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.EmptyPrepConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadPrepConfig(*configFile)
		if err != nil {
			log.Fatalf("[Convert] config: %v", err)
		}
	}

	chName := cfg.GetChannel()
	if *channel != "" {
		chName = *channel
	}
	ch, ok := gregor.ChannelByName(chName)
	if !ok {
		log.Fatalf("[Convert] unknown channel %q", chName)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("[Convert] create output dir: %v", err)
	}

	result, meta, err := buildPipeline(ch, cfg).Run(*inFile, nil)
	if err != nil {
		log.Fatalf("[Convert] %v", err)
	}
	c := result.(*cube.Cube)

	base := strings.TrimSuffix(filepath.Base(*inFile), filepath.Ext(*inFile))
	outPath := filepath.Join(*outDir, fmt.Sprintf("%s_%s.cbor", base, ch.Name))
	if err := framelog.WriteCube(outPath, c); err != nil {
		log.Fatalf("[Convert] %v", err)
	}
	log.Printf("[Convert] %v -> %s shape=%v", meta["path"], outPath, c.Shape)

	if *quick {
		stats := quicklook.Summarize(c)
		log.Printf("[Convert] stats min=%.3f max=%.3f mean=%.3f stddev=%.3f nodata=%d",
			stats.Min, stats.Max, stats.Mean, stats.StdDev, stats.NoData)

		preview := filepath.Join(*outDir, fmt.Sprintf("%s_%s_preview.png", base, ch.Name))
		if err := quicklook.WritePreviewPNG(c, preview, 1024); err != nil {
			log.Fatalf("[Convert] %v", err)
		}
		hist := filepath.Join(*outDir, fmt.Sprintf("%s_%s_hist.png", base, ch.Name))
		if err := quicklook.WriteHistogramPNG(c, hist, 64); err != nil {
			log.Fatalf("[Convert] %v", err)
		}
		log.Printf("[Convert] quicklook written to %s and %s", preview, hist)
	}
}

// buildPipeline assembles the per-file pipeline: the loader emits the
// frame sequence, the distribute step converts each frame independently,
// and the sentinel fill runs last so padding stays distinguishable from
// dark pixels until the very end.
func buildPipeline(ch gregor.Channel, cfg *config.PrepConfig) *pipeline.Pipeline {
	perFrame := []pipeline.Unit{gregor.FrameData{}}
	if f := cfg.GetDownsampleFactor(); f > 1 {
		perFrame = append(perFrame, geom.DownsampleUnit{Factor: f})
	}
	perFrame = append(perFrame,
		geom.PadUnit{TargetH: cfg.GetTargetHeight(), TargetW: cfg.GetTargetWidth()},
		stretch.Normalize{Stretch: stretch.Linear{
			VMin: cfg.GetStretchVMin(),
			VMax: cfg.GetStretchVMax(),
			Clip: true,
		}.Stretch},
		pipeline.ExpandDims{},
	)

	return pipeline.New(
		gregor.NewLoader(ch, nil),
		&pipeline.Distribute{Units: perFrame, MaxConcurrent: cfg.GetMaxConcurrent()},
		pipeline.ReplaceNaN{With: cfg.GetNaNFill()},
	)
}
