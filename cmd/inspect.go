package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/capture"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Describe the entries of a capture bundle.
func InspectBundle(ctx *cli.Context) error {
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

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Selector", "AOV", "Dims", "Zero-weight pixels"})
	for _, sel := range bundle.Selectors() {
		raw, _ := bundle.Get(sel)
		name := "unknown"
		if k, err := aov.Parse(string(sel)); err == nil {
			name = k.String()
		}
		table.Append([]string{
			string(sel),
			name,
			fmt.Sprintf("%dx%d", raw.Width, raw.Height),
			fmt.Sprintf("%d", raw.ZeroWeightCount()),
		})
	}
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
