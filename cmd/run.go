package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/capture"
	"github.com/achilleasa/aovtest/codec"
	"github.com/achilleasa/aovtest/compare"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/harness"
	"github.com/achilleasa/aovtest/renderer"
	"github.com/achilleasa/aovtest/store"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Run the AOV suite against a capture bundle.
func RunSuite(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing capture bundle argument")
	}

	bundle, err := capture.ReadBundle(ctx.Args().First())
	if err != nil {
		return err
	}
	frameW, frameH, ok := bundle.FrameSize()
	if !ok {
		return fmt.Errorf("%w: entries differ in size", capture.ErrInvalidBundle)
	}

	kinds := bundle.Kinds()
	if names := ctx.StringSlice("aov"); len(names) != 0 {
		if kinds, err = aov.ParseList(names); err != nil {
			return err
		}
	}

	if len(kinds) == 0 {
		return fmt.Errorf("%w: no known AOV selectors in %s", capture.ErrInvalidBundle, ctx.Args().First())
	}

	policy, err := frame.ParseZeroWeightPolicy(ctx.String("zero-weight"))
	if err != nil {
		return err
	}

	st, err := newStore(ctx)
	if err != nil {
		return err
	}

	replay := capture.NewReplay(bundle)
	defer replay.Close()

	opts := renderer.Options{
		FrameW:     frameW,
		FrameH:     frameH,
		Iterations: uint32(ctx.Uint("iterations")),
	}
	runner, err := harness.NewRunner(replay, st, opts, policy)
	if err != nil {
		return err
	}

	report := runner.RunAll(kinds)
	displayReport(ctx, report)

	if !report.OK() {
		return cli.NewExitError(fmt.Sprintf("%d of %d AOV test(s) failed", report.Failed(), len(report.Results)), 1)
	}
	return nil
}

func newStore(ctx *cli.Context) (*store.Store, error) {
	enc, err := codec.ParseEncoding(ctx.String("encoding"))
	if err != nil {
		return nil, err
	}
	cd := codec.New(enc)

	comparator, err := newComparator(ctx, cd)
	if err != nil {
		return nil, err
	}

	return store.New(store.Config{
		Mode:         store.ModeFromFlag(ctx.Bool("generate")),
		ReferenceDir: ctx.String("ref"),
		OutputDir:    ctx.String("out"),
		Codec:        cd,
		Comparator:   comparator,
		WriteDiff:    ctx.Bool("diff"),
	})
}

func newComparator(ctx *cli.Context, cd *codec.Codec) (*compare.Comparator, error) {
	metric, err := compare.ParseMetric(ctx.String("metric"))
	if err != nil {
		return nil, err
	}

	return compare.New(
		compare.WithMetric(metric),
		compare.WithThreshold(ctx.Float64("threshold")),
		compare.WithCodec(cd),
	)
}

func displayReport(ctx *cli.Context, report harness.Report) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Test", "Status", "Metric", "Value", "Threshold", "Passes", "Render time", "Time/pass"})
	for _, res := range report.Results {
		metric, value, threshold := "-", "-", "-"
		if res.Verdict != nil {
			metric = res.Verdict.Metric.String()
			value = fmt.Sprintf("%g", res.Verdict.Value)
			threshold = fmt.Sprintf("%g", res.Verdict.Threshold)
		}
		table.Append([]string{
			res.Test,
			res.Status().String(),
			metric,
			value,
			threshold,
			fmt.Sprintf("%d", res.Stats.Iterations),
			res.Stats.RenderTime.String(),
			res.Stats.TimePerIteration().String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "FAILED", fmt.Sprintf("%d", report.Failed())})
	table.Render()

	fmt.Fprintf(ctx.App.Writer, "%s mode\n%s", report.Mode, buf.String())
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(ctx.App.Writer, "%s: %s\n", res.Test, res.Err.Error())
		}
	}
}
