package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/aovtest/aov"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the supported AOVs.
func ListAOVs(ctx *cli.Context) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"AOV", "Selector", "Test"})
	for _, k := range aov.All() {
		table.Append([]string{k.String(), string(k.Selector()), k.TestName()})
	}
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
