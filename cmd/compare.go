package cmd

import (
	"errors"
	"fmt"

	"github.com/achilleasa/aovtest/codec"
	"github.com/achilleasa/aovtest/compare"
	"github.com/urfave/cli"
)

// Compare two image files using the selected metric.
func CompareImages(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 2 {
		return errors.New("expected output and reference image arguments")
	}

	comparator, err := newComparator(ctx, codec.New(codec.Half))
	if err != nil {
		return err
	}

	verdict, err := comparator.Compare("compare", ctx.Args().Get(0), ctx.Args().Get(1))
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, verdict.String())
	if !verdict.Passed {
		return cli.NewExitError("images differ", 1)
	}
	return nil
}

// Write an image with the absolute per-channel difference of two images.
func DiffImages(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 3 {
		return errors.New("expected output, reference and diff image arguments")
	}

	reader := codec.New(codec.Half)
	out, err := reader.Read(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	ref, err := reader.Read(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	diff, err := compare.Diff(out, ref)
	if err != nil {
		return err
	}

	diffFile := ctx.Args().Get(2)
	if ctx.Bool("raw") {
		err = codec.New(codec.Float32).Write(diffFile, diff)
	} else {
		err = codec.New(codec.Unorm16).Write(diffFile, compare.Visualize(diff))
	}
	if err != nil {
		return err
	}

	logger.Noticef("wrote difference image to %s", diffFile)
	return nil
}
