package cmd

import (
	"github.com/achilleasa/aovtest/compare"
	"github.com/urfave/cli"
)

// Build the aovtest command line application.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "aovtest"
	app.Usage = "regression test renderer AOV outputs against reference images"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "AOVTEST_LOG_LEVEL",
		},
	}

	compareFlags := []cli.Flag{
		cli.StringFlag{
			Name:   "metric, m",
			Value:  compare.MAE.String(),
			Usage:  "difference metric (mae, mse, rmse, max)",
			EnvVar: "AOVTEST_METRIC",
		},
		cli.Float64Flag{
			Name:   "threshold, t",
			Value:  compare.DefaultThreshold,
			Usage:  "largest metric value that still passes",
			EnvVar: "AOVTEST_THRESHOLD",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "run the AOV test suite against a captured render",
			Description: `
Replay the raw accumulation buffers stored in a capture bundle through the
normalize, encode and compare pipeline, one test per AOV.

In generate mode the normalized images become the new reference set. In verify
mode they are written to the output directory and compared against the
references; the command exits with a non-zero status if any test fails.`,
			ArgsUsage: "capture.zip",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:   "generate, g",
					Usage:  "write reference images instead of verifying",
					EnvVar: "AOVTEST_GENERATE",
				},
				cli.StringFlag{
					Name:   "ref, r",
					Value:  "reference",
					Usage:  "reference image directory or http(s) URL",
					EnvVar: "AOVTEST_REFERENCE_DIR",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "output",
					Usage:  "output image directory",
					EnvVar: "AOVTEST_OUTPUT_DIR",
				},
				cli.UintFlag{
					Name:  "iterations, n",
					Usage: "render passes to accumulate per test (0 selects the default)",
				},
				cli.StringFlag{
					Name:  "zero-weight",
					Value: "clamp",
					Usage: "handling of pixels without samples (clamp, propagate)",
				},
				cli.StringFlag{
					Name:  "encoding, e",
					Value: "float32",
					Usage: "image sample encoding (float32, half, unorm16)",
				},
				cli.StringSliceFlag{
					Name:  "aov, a",
					Value: &cli.StringSlice{},
					Usage: "only run the test for this AOV; may be repeated",
				},
				cli.BoolFlag{
					Name:  "diff",
					Usage: "write a difference image for failing tests",
				},
			}, compareFlags...),
			Action: RunSuite,
		},
		{
			Name:      "compare",
			Usage:     "compare an output image against a reference image",
			ArgsUsage: "out.png ref.png",
			Flags:     compareFlags,
			Action:    CompareImages,
		},
		{
			Name:      "diff",
			Usage:     "write the per-pixel absolute difference of two images",
			ArgsUsage: "out.png ref.png diff.png",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "raw",
					Usage: "store unscaled differences using float32 encoding",
				},
			},
			Action: DiffImages,
		},
		{
			Name:   "list-aovs",
			Usage:  "list the supported AOVs",
			Action: ListAOVs,
		},
		{
			Name:      "inspect",
			Usage:     "describe the contents of a capture bundle",
			ArgsUsage: "capture.zip",
			Action:    InspectBundle,
		},
	}

	return app
}
