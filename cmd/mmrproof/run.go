package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/report"
	"github.com/urfave/cli/v2"
)

var (
	ErrUsage         = errors.New("usage")
	ErrProofRejected = errors.New("the inclusion proof was rejected")
)

func checkpointCmd(cCtx *cli.Context) error {
	if !cCtx.IsSet(flagHeight) {
		return fmt.Errorf("%w: --%s is required", ErrUsage, flagHeight)
	}
	return run(cCtx, cCtx.Uint64(flagHeight), nil)
}

func proveCmd(cCtx *cli.Context) error {
	if !cCtx.IsSet(flagHeight) || !cCtx.IsSet(flagVerify) {
		return fmt.Errorf("%w: --%s and --%s are required", ErrUsage, flagHeight, flagVerify)
	}
	verify := cCtx.Uint64(flagVerify)
	return run(cCtx, cCtx.Uint64(flagHeight), &verify)
}

// positionalCmd accepts URL HEIGHT [VERIFY] as arguments, or the equivalent
// flags.
func positionalCmd(cCtx *cli.Context) error {
	args := cCtx.Args().Slice()
	if len(args) == 0 && !cCtx.IsSet(flagHeight) {
		return cli.ShowAppHelp(cCtx)
	}
	if len(args) > 3 {
		return fmt.Errorf("%w: expected URL HEIGHT [VERIFY], got %d arguments", ErrUsage, len(args))
	}

	var url string
	height, heightSet := cCtx.Uint64(flagHeight), cCtx.IsSet(flagHeight)
	var verify *uint64
	if cCtx.IsSet(flagVerify) {
		v := cCtx.Uint64(flagVerify)
		verify = &v
	}

	if len(args) > 0 {
		url = args[0]
	}
	if len(args) > 1 {
		h, err := parseHeightArg("HEIGHT", args[1])
		if err != nil {
			return err
		}
		height, heightSet = h, true
	}
	if len(args) > 2 {
		v, err := parseHeightArg("VERIFY", args[2])
		if err != nil {
			return err
		}
		verify = &v
	}
	if !heightSet {
		return fmt.Errorf("%w: HEIGHT is required", ErrUsage)
	}
	return runWithURL(cCtx, url, height, verify)
}

func parseHeightArg(name, value string) (uint64, error) {
	h, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a block height", ErrUsage, name, value)
	}
	return h, nil
}

func run(cCtx *cli.Context, height uint64, verify *uint64) error {
	return runWithURL(cCtx, "", height, verify)
}

// runWithURL runs the pipeline and writes the report. url, when not empty,
// takes precedence over the configured indexer url.
func runWithURL(cCtx *cli.Context, url string, height uint64, verify *uint64) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	if url != "" {
		cfg.IndexerURL = url
	}

	log := newLogger(cfg)
	defer logger.OnExit()

	pipeline, release, err := newPipeline(log, cfg)
	if err != nil {
		return err
	}
	defer release()

	rpt, err := pipeline.Run(cCtx.Context, height, verify)
	if err != nil {
		return err
	}
	if err = report.Encode(cCtx.App.Writer, cfg.Format, rpt); err != nil {
		return err
	}
	if rpt.Rejected() {
		return fmt.Errorf("%w: leaf at height %d against the root at height %d", ErrProofRejected, *verify, height)
	}
	return nil
}
