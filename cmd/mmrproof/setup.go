package main

import (
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/config"
	"github.com/forestrie/go-mmrproofs/indexer"
	"github.com/forestrie/go-mmrproofs/proofs"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the config file and environment, then applies the flags
// that were set explicitly.
func loadConfig(cCtx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(cCtx.String(flagConfig))
	if err != nil {
		return config.Config{}, err
	}
	if cCtx.IsSet(flagURL) {
		cfg.IndexerURL = cCtx.String(flagURL)
	}
	if cCtx.IsSet(flagLogLevel) {
		cfg.LogLevel = cCtx.String(flagLogLevel)
	}
	if cCtx.IsSet(flagFormat) {
		cfg.Format = cCtx.String(flagFormat)
	}
	if cCtx.IsSet(flagHash) {
		cfg.HashName = cCtx.String(flagHash)
	}
	if cCtx.IsSet(flagCachePath) {
		cfg.CachePath = cCtx.String(flagCachePath)
	}
	if cCtx.IsSet(flagTimeout) {
		cfg.Timeout = cCtx.Duration(flagTimeout)
	}
	if cCtx.IsSet(flagHeader) {
		cfg.Headers = append(cfg.Headers, cCtx.StringSlice(flagHeader)...)
	}
	if cCtx.IsSet(flagAddr) {
		cfg.Server.Addr = cCtx.String(flagAddr)
	}
	if err = cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) logger.Logger {
	logger.New(cfg.LogLevel)
	return logger.Sugar.WithServiceName(appName)
}

// newPipeline wires the indexer client, the optional node cache and the
// pipeline. The returned func releases the cache.
func newPipeline(log logger.Logger, cfg config.Config) (*proofs.Pipeline, func(), error) {
	if err := cfg.RequireIndexerURL(); err != nil {
		return nil, nil, err
	}
	newHasher, err := proofs.NewHasherFactory(cfg.HashName)
	if err != nil {
		return nil, nil, err
	}

	clientOpts := []indexer.ClientOption{indexer.WithTimeout(cfg.Timeout)}
	for _, h := range cfg.HeaderPairs() {
		clientOpts = append(clientOpts, indexer.WithHeader(h[0], h[1]))
	}

	release := func() {}
	var resolverOpts []indexer.ResolverOption
	if cfg.CachePath != "" {
		cache, err := indexer.OpenBoltCache(cfg.CachePath)
		if err != nil {
			return nil, nil, err
		}
		resolverOpts = append(resolverOpts, indexer.WithNodeCache(cache))
		release = func() {
			if err := cache.Close(); err != nil {
				log.Infof("closing node cache: %v", err)
			}
		}
	}

	resolver := indexer.NewResolver(log, indexer.NewClient(log, cfg.IndexerURL, clientOpts...), resolverOpts...)
	return proofs.NewPipeline(log, resolver, newHasher, proofs.WithRequireNonEmpty()), release, nil
}
