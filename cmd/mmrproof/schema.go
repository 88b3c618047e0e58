package main

import (
	"encoding/json"

	"github.com/forestrie/go-mmrproofs/report"
	"github.com/urfave/cli/v2"
)

func schemaCmd(cCtx *cli.Context) error {
	enc := json.NewEncoder(cCtx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(report.Schema())
}
