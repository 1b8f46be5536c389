// Package store resolves reference and output image paths for AOV tests and
// either blesses new references or verifies renders against them.
package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/achilleasa/aovtest/asset"
	"github.com/achilleasa/aovtest/codec"
	"github.com/achilleasa/aovtest/compare"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/log"
)

const (
	imageExt = ".png"
	diffExt  = ".diff.png"
)

type Config struct {
	Mode Mode

	// Directory holding trusted baselines. May be an http(s) base URL in
	// Verify mode.
	ReferenceDir string

	// Directory receiving the images rendered by the current run.
	OutputDir string

	// Codec used for writing images. Defaults to half-float PNG.
	Codec *codec.Codec

	// Comparator used in Verify mode. Defaults to compare.New().
	Comparator *compare.Comparator

	// Write a <test>.diff.png visualization into OutputDir for failed tests.
	WriteDiff bool
}

type Store struct {
	logger log.Logger
	cfg    Config
}

// Create a store. Local directories required by the selected mode are created
// if missing.
func New(cfg Config) (*Store, error) {
	if cfg.ReferenceDir == "" || cfg.OutputDir == "" {
		return nil, ErrMissingDir
	}

	var dir string
	switch cfg.Mode {
	case Generate:
		if asset.IsRemote(cfg.ReferenceDir) {
			return nil, ErrRemoteReference
		}
		dir = cfg.ReferenceDir
	case Verify:
		dir = cfg.OutputDir
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, cfg.Mode)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &codec.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	if cfg.Codec == nil {
		cfg.Codec = codec.New(codec.Float32)
	}
	if cfg.Comparator == nil {
		cmp, err := compare.New(compare.WithCodec(cfg.Codec))
		if err != nil {
			return nil, err
		}
		cfg.Comparator = cmp
	}

	return &Store{
		logger: log.New("store"),
		cfg:    cfg,
	}, nil
}

// Get the store mode.
func (s *Store) Mode() Mode {
	return s.cfg.Mode
}

// Get the comparator used for verification.
func (s *Store) Comparator() *compare.Comparator {
	return s.cfg.Comparator
}

// Resolve the path that Save writes to for the current mode.
func (s *Store) Path(test string) string {
	if s.cfg.Mode == Generate {
		return s.ReferencePath(test)
	}
	return s.OutputPath(test)
}

// Resolve the reference image path for a test.
func (s *Store) ReferencePath(test string) string {
	return asset.Join(s.cfg.ReferenceDir, test+imageExt)
}

// Resolve the output image path for a test.
func (s *Store) OutputPath(test string) string {
	return asset.Join(s.cfg.OutputDir, test+imageExt)
}

// Resolve the diff image path for a test.
func (s *Store) DiffPath(test string) string {
	return asset.Join(s.cfg.OutputDir, test+diffExt)
}

// Save the image captured for a test.
//
// In Generate mode the image unconditionally replaces the reference; any
// previous baseline for the test is lost. The returned verdict is nil.
//
// In Verify mode the image is written to the output directory and compared
// against the reference. A missing reference yields *MissingBaselineError. A
// failed comparison is reported through the verdict, not as an error.
func (s *Store) Save(test string, img *frame.Image) (*compare.Verdict, error) {
	if test == "" || strings.ContainsAny(test, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTestName, test)
	}

	if s.cfg.Mode == Generate {
		return nil, s.generate(test, img)
	}
	return s.verify(test, img)
}

func (s *Store) generate(test string, img *frame.Image) error {
	refPath := s.ReferencePath(test)
	if _, err := os.Stat(refPath); err == nil {
		s.logger.Warningf(`%s: overwriting reference image "%s"`, test, refPath)
	}

	if err := s.cfg.Codec.Write(refPath, img); err != nil {
		return err
	}
	s.logger.Noticef(`%s: generated reference image "%s"`, test, refPath)
	return nil
}

func (s *Store) verify(test string, img *frame.Image) (*compare.Verdict, error) {
	outPath := s.OutputPath(test)
	if err := s.cfg.Codec.Write(outPath, img); err != nil {
		return nil, err
	}

	refPath := s.ReferencePath(test)
	exists, err := asset.Exists(refPath)
	if err != nil {
		return nil, &codec.IOError{Op: "stat", Path: refPath, Err: err}
	}
	if !exists {
		return nil, &MissingBaselineError{Test: test, Path: refPath}
	}

	verdict, err := s.cfg.Comparator.Compare(test, outPath, refPath)
	if err != nil {
		return nil, err
	}

	if verdict.Passed {
		s.logger.Infof("%s", verdict)
		return &verdict, nil
	}

	s.logger.Warningf("%s", verdict)
	if s.cfg.WriteDiff {
		if err := s.writeDiff(test, outPath, refPath); err != nil {
			s.logger.Errorf("%s: could not write diff image: %s", test, err.Error())
		}
	}
	return &verdict, nil
}

func (s *Store) writeDiff(test, outPath, refPath string) error {
	out, err := s.cfg.Codec.Read(outPath)
	if err != nil {
		return err
	}
	ref, err := s.cfg.Codec.Read(refPath)
	if err != nil {
		return err
	}

	diff, err := compare.Diff(out, ref)
	if err != nil {
		return err
	}

	diffPath := s.DiffPath(test)
	if err = codec.New(codec.Unorm16).Write(diffPath, compare.Visualize(diff)); err != nil {
		return err
	}
	s.logger.Noticef(`%s: wrote diff image to "%s"`, test, diffPath)
	return nil
}
