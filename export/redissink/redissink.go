package redissink

import (
	"context"
	"strconv"
	"strings"

	"github.com/abhimishr/gcam-core/export"
	"github.com/go-redis/redis/v8"
	"github.com/sgostarter/i/l"
)

const fieldSep = "|"

// Sink keeps the rows of a scenario in one redis hash, field
// region|variable|period, so a rewrite replaces them atomically.
type Sink struct {
	logger   l.Wrapper
	preKey   string
	redisCli *redis.Client
}

func NewSink(preKey string, redisCli *redis.Client, logger l.Wrapper) *Sink {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "redisSink"))

	if redisCli == nil {
		logger.Fatal("no redis client")
	}

	return &Sink{
		logger:   logger,
		preKey:   preKey,
		redisCli: redisCli,
	}
}

func (impl *Sink) WriteRows(ctx context.Context, scenario string, rows []export.Row) error {
	args := []interface{}{scenario}

	for _, row := range rows {
		for period, v := range row.Values {
			args = append(args, Field(row.Region, row.Variable, period), v.String())
		}
	}

	err := replaceRowsScript.Run(ctx, impl.redisCli, []string{impl.rowsKey(scenario), impl.scenariosKey()},
		args...).Err()
	if err != nil && err != redis.Nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("scenario", scenario)).Error("replace rows failed")

		return err
	}

	return nil
}

func (impl *Sink) Values(ctx context.Context, scenario string) (map[string]string, error) {
	return impl.redisCli.HGetAll(ctx, impl.rowsKey(scenario)).Result()
}

func (impl *Sink) Scenarios(ctx context.Context) ([]string, error) {
	return impl.redisCli.SMembers(ctx, impl.scenariosKey()).Result()
}

func Field(region, variable string, period int) string {
	return strings.Join([]string{region, variable, strconv.Itoa(period)}, fieldSep)
}

func (impl *Sink) rowsKey(scenario string) string {
	return impl.preKey + "policycost:" + scenario
}

func (impl *Sink) scenariosKey() string {
	return impl.preKey + "policycost:scenarios"
}
