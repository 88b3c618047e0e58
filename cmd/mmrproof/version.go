package main

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"
)

func versionCmd(cCtx *cli.Context) error {
	_, err := fmt.Fprintf(cCtx.App.Writer, "%s %s %s/%s %s\n",
		appName, Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	return err
}
