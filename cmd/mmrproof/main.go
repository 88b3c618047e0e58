package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const appName = "mmrproof"

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

const (
	flagConfig    = "config"
	flagURL       = "url"
	flagHeight    = "height"
	flagVerify    = "verify"
	flagLogLevel  = "log-level"
	flagFormat    = "format"
	flagHash      = "hash"
	flagCachePath = "cache-path"
	flagTimeout   = "timeout"
	flagHeader    = "header"
	flagAddr      = "addr"
)

// commonFlags returns fresh instances of the flags every command accepts
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "Configuration file, toml, yaml or json",
		},
		&cli.StringFlag{
			Name:    flagURL,
			Aliases: []string{"u"},
			Usage:   "Url of the indexer graphql endpoint",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "Log level, NOOP, DEBUG, INFO, WARN or ERROR",
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Aliases: []string{"f"},
			Usage:   "Report format, json or cbor",
		},
		&cli.StringFlag{
			Name:  flagHash,
			Usage: "Merge hash of the mmr, blake2b-256 or keccak256",
		},
		&cli.StringFlag{
			Name:  flagCachePath,
			Usage: "Cache fetched nodes in this bbolt database file",
		},
		&cli.DurationFlag{
			Name:  flagTimeout,
			Usage: "Timeout for each indexer request",
		},
		&cli.StringSliceFlag{
			Name:  flagHeader,
			Usage: "Header added to indexer requests, 'Name: value'",
		},
	}
}

func heightFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:  flagHeight,
		Usage: "Block height of the checkpoint",
	}
}

func verifyFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:  flagVerify,
		Usage: "Block height of the leaf to prove, below --height",
	}
}

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "Checkpoints and inclusion proofs for a remotely indexed merkle mountain range"
	app.Version = Version
	app.ArgsUsage = "[URL HEIGHT [VERIFY]]"
	app.Flags = append(commonFlags(), heightFlag(), verifyFlag())
	app.Action = positionalCmd
	app.Commands = []*cli.Command{
		{
			Name:   "checkpoint",
			Usage:  "Print the mmr root and peaks at a block height",
			Action: checkpointCmd,
			Flags:  append(commonFlags(), heightFlag()),
		},
		{
			Name:   "prove",
			Usage:  "Print the checkpoint at a block height with a verified inclusion proof of an earlier leaf",
			Action: proveCmd,
			Flags:  append(commonFlags(), heightFlag(), verifyFlag()),
		},
		{
			Name:   "serve",
			Usage:  "Serve checkpoints and proofs over http",
			Action: serveCmd,
			Flags: append(commonFlags(), &cli.StringFlag{
				Name:  flagAddr,
				Usage: "Listen address",
			}),
		},
		{
			Name:   "schema",
			Usage:  "Print the json schema of the report",
			Action: schemaCmd,
		},
		{
			Name:   "version",
			Usage:  "Application version",
			Action: versionCmd,
		},
	}
	return app
}

func main() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
