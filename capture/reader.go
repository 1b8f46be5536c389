package capture

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/asset"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/log"
)

type zipBundleReader struct {
	logger log.Logger
}

// Read a bundle from a local zip file or an http(s) URL.
func ReadBundle(filename string) (*Bundle, error) {
	res, err := asset.NewResource(filename)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	r := &zipBundleReader{
		logger: log.New("capture reader"),
	}
	return r.Read(res)
}

// Read bundle entries from a zip resource.
func (r *zipBundleReader) Read(res *asset.Resource) (*Bundle, error) {
	r.logger.Noticef(`reading capture bundle from "%s"`, res.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBundle, err.Error())
	}

	var m *manifest
	b := NewBundle()
	for _, f := range zr.File {
		switch {
		case f.Name == manifestFile:
			m = &manifest{}
			if err = decodeEntry(f, m); err != nil {
				return nil, err
			}
		case strings.HasSuffix(f.Name, entryExt):
			buf := &frame.RawBuffer{}
			if err = decodeEntry(f, buf); err != nil {
				return nil, err
			}
			if len(buf.Samples) != int(buf.Width)*int(buf.Height) {
				return nil, fmt.Errorf("%w: entry %s has %d samples for a %dx%d frame", ErrInvalidBundle, f.Name, len(buf.Samples), buf.Width, buf.Height)
			}
			b.Add(aov.Selector(strings.TrimSuffix(f.Name, entryExt)), buf)
		default:
			r.logger.Warningf("unknown file %s in capture bundle; skipping", f.Name)
		}
	}

	if m == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidBundle, manifestFile)
	}
	if m.Version != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidBundle, m.Version)
	}
	for _, sel := range m.Selectors {
		if _, ok := b.Get(aov.Selector(sel)); !ok {
			return nil, fmt.Errorf("%w: manifest lists %s but no data was found", ErrInvalidBundle, sel)
		}
	}

	r.logger.Noticef("loaded %d entries in %d ms", len(b.Entries), time.Since(start).Nanoseconds()/1000000)
	return b, nil
}

func decodeEntry(f *zip.File, target interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err = gob.NewDecoder(rc).Decode(target); err != nil {
		return fmt.Errorf("%w: failed to load %s: %s", ErrInvalidBundle, f.Name, err.Error())
	}
	return nil
}
