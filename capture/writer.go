package capture

import (
	"archive/zip"
	"encoding/gob"
	"os"
	"time"

	"github.com/achilleasa/aovtest/log"
)

const (
	manifestFile = "manifest.bin"
	entryExt     = ".bin"
	version      = 1
)

type manifest struct {
	Version   int
	Selectors []string
}

type zipBundleWriter struct {
	logger     log.Logger
	bundleFile string
}

// Write a bundle to a zip file.
func WriteBundle(b *Bundle, filename string) error {
	w := &zipBundleWriter{
		logger:     log.New("capture writer"),
		bundleFile: filename,
	}
	return w.Write(b)
}

// Write bundle entries as gob-encoded raw buffers.
func (w *zipBundleWriter) Write(b *Bundle) error {
	if len(b.Entries) == 0 {
		return ErrEmptyBundle
	}

	w.logger.Noticef(`writing capture bundle to "%s"`, w.bundleFile)
	start := time.Now()

	zipFile, err := os.Create(w.bundleFile)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)

	m := manifest{Version: version}
	for _, sel := range b.Selectors() {
		m.Selectors = append(m.Selectors, string(sel))

		cw, err := zw.Create(string(sel) + entryExt)
		if err != nil {
			return err
		}
		if err = gob.NewEncoder(cw).Encode(b.Entries[sel]); err != nil {
			return err
		}
	}

	cw, err := zw.Create(manifestFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(cw).Encode(m); err != nil {
		return err
	}

	if err = zw.Close(); err != nil {
		return err
	}

	w.logger.Noticef("wrote %d entries in %d ms", len(m.Selectors), time.Since(start).Nanoseconds()/1000000)
	return zipFile.Sync()
}
