package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/helio-data/sunprep/internal/container"
	"github.com/helio-data/sunprep/internal/gregor"
	"github.com/helio-data/sunprep/internal/timeutil"
)

// Scanner walks a directory of instrument files and catalogues every
// (file, channel) pair it can load. Files that match neither channel are
// logged and skipped; a scan is not aborted by individual bad files.
type Scanner struct {
	Store    *Store
	Channels []gregor.Channel
	Reader   container.Reader // nil selects the FITS reader
	Clock    timeutil.Clock   // nil selects the system clock

	// Debug enables per-file logging.
	Debug bool
}

func (sc *Scanner) clock() timeutil.Clock {
	if sc.Clock == nil {
		return timeutil.RealClock{}
	}
	return sc.Clock
}

// ScanDir catalogues every .fits/.fts file under dir. It returns the scan
// run ID and the number of observations recorded.
func (sc *Scanner) ScanDir(dir string) (string, int, error) {
	scanID := uuid.New().String()
	started := sc.clock().Now()
	loaders := make([]*gregor.Loader, len(sc.Channels))
	for i, ch := range sc.Channels {
		loaders[i] = gregor.NewLoader(ch, sc.Reader)
	}

	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isInstrumentFile(path) {
			return nil
		}
		for _, loader := range loaders {
			if sc.scanFile(scanID, loader, path) {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return scanID, count, fmt.Errorf("catalog: scanning %s: %w", dir, err)
	}
	log.Printf("[Catalog] scan %s recorded %d observations under %s in %s", scanID, count, dir, sc.clock().Since(started))
	return scanID, count, nil
}

func (sc *Scanner) scanFile(scanID string, loader *gregor.Loader, path string) bool {
	frames, err := loader.Load(path)
	if err != nil {
		var unsupported *gregor.UnsupportedFileError
		if errors.As(err, &unsupported) {
			// The other channel's loader may still match this file.
			if sc.Debug {
				log.Printf("[Catalog] %s: no %s channel", path, loader.Channel().Name)
			}
			return false
		}
		log.Printf("[Catalog] skipping %s: %v", path, err)
		return false
	}
	if len(frames) == 0 {
		return false
	}

	o := Observation{
		ScanID:        scanID,
		Path:          path,
		Channel:       loader.Channel().Name,
		Wavelength:    loader.Channel().Wavelength,
		FrameCount:    len(frames),
		MinTimeOffset: frames[0].TimeOffset,
		MaxTimeOffset: frames[len(frames)-1].TimeOffset,
		ScannedAt:     sc.clock().Now(),
	}
	o.Height, o.Width = frames[0].Data.Dims()

	if err := sc.Store.Upsert(o); err != nil {
		log.Printf("[Catalog] failed to record %s: %v", path, err)
		return false
	}
	if sc.Debug {
		log.Printf("[Catalog] %s: %d %s frames", path, len(frames), loader.Channel().Name)
	}
	return true
}

func isInstrumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fts":
		return true
	}
	return false
}
