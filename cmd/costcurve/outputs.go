package main

import (
	"fmt"

	"github.com/abhimishr/gcam-core/config"
	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/export"
	"github.com/abhimishr/gcam-core/export/docstore"
	"github.com/abhimishr/gcam-core/export/redissink"
	"github.com/abhimishr/gcam-core/export/sqlsink"
	"github.com/abhimishr/gcam-core/macrunner"
	"github.com/abhimishr/gcam-core/metrics"
	"github.com/abhimishr/gcam-core/watchdog"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/spf13/cobra"
)

// outputs owns every destination a run writes to.
type outputs struct {
	logger      l.Wrapper
	registry    *prometheus.Registry
	metricsFile string

	opts    []macrunner.Option
	closers []func() error
}

func newOutputs(cmd *cobra.Command, cfg config.Config, logger l.Wrapper) (o *outputs, err error) {
	o = &outputs{
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	o.metricsFile, _ = cmd.Flags().GetString("metrics-file")

	defer func() {
		if err != nil {
			o.Close()
		}
	}()

	if err = pathutils.MustDirExists(cfg.Output.Root); err != nil {
		return
	}

	o.opts = append(o.opts,
		macrunner.WithOutputStorage(rawfs.NewFSStorage(cfg.Output.Root)),
		macrunner.WithTrialObserver(metrics.NewCollector(o.registry)),
	)

	if stall, _ := cmd.Flags().GetDuration("stall-timeout"); stall > 0 {
		o.opts = append(o.opts, macrunner.WithWatchDog(watchdog.Config{
			Name:             "trials",
			CheckInterval:    stall,
			CheckMaxDuration: stall,
			CheckFailCount:   1,
		}))
	}

	if snapshots, _ := cmd.Flags().GetString("snapshots"); snapshots != "" {
		if err = pathutils.MustDirExists(snapshots); err != nil {
			return
		}

		o.opts = append(o.opts, macrunner.WithSnapshotStorage(curve.NewFileStorage(rawfs.NewFSStorage(snapshots))))
	}

	if cfg.Output.DocStoreRoot != "" {
		if err = pathutils.MustDirExists(cfg.Output.DocStoreRoot); err != nil {
			return
		}

		o.opts = append(o.opts, macrunner.WithExportOptions(
			export.WithDocumentAppender(docstore.NewStore(rawfs.NewFSStorage(cfg.Output.DocStoreRoot), logger))))
	}

	if cfg.Output.SQLitePath != "" {
		var sink *sqlsink.Sink

		sink, err = sqlsink.Open(cfg.Output.SQLitePath)
		if err != nil {
			return
		}

		o.closers = append(o.closers, sink.Close)
		o.opts = append(o.opts, macrunner.WithExportOptions(export.WithTableWriter(sink)))
	}

	if cfg.Output.RedisAddr != "" {
		var redisOpts *redis.Options

		redisOpts, err = redis.ParseURL(cfg.Output.RedisAddr)
		if err != nil {
			err = fmt.Errorf("redis address: %w", err)

			return
		}

		redisCli := redis.NewClient(redisOpts)

		o.closers = append(o.closers, redisCli.Close)
		o.opts = append(o.opts, macrunner.WithExportOptions(
			export.WithTableWriter(redissink.NewSink(cfg.Output.RedisPrefix, redisCli, logger))))
	}

	return
}

func (o *outputs) Close() {
	if o.metricsFile != "" {
		if err := prometheus.WriteToTextfile(o.metricsFile, o.registry); err != nil {
			o.logger.WithFields(l.ErrorField(err), l.StringField("file", o.metricsFile)).Error("write metrics failed")
		}
	}

	for _, fnClose := range o.closers {
		if err := fnClose(); err != nil {
			o.logger.WithFields(l.ErrorField(err)).Warn("close output failed")
		}
	}

	o.closers = nil
}
