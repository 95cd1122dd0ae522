package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhimishr/gcam-core/config"
	"github.com/abhimishr/gcam-core/policycost"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
)

type ResultSource interface {
	Result() (*policycost.Result, bool)
}

type TableWriter interface {
	WriteRows(ctx context.Context, scenario string, rows []Row) error
}

// DocumentAppender inserts a document into a larger one at a named location.
type DocumentAppender interface {
	AppendDocument(ctx context.Context, doc []byte, location string) error
}

type Option func(*Exporter)

func WithDocumentAppender(appender DocumentAppender) Option {
	return func(e *Exporter) {
		e.appender = appender
	}
}

func WithTableWriter(w TableWriter) Option {
	return func(e *Exporter) {
		if w != nil {
			e.tableWriters = append(e.tableWriters, w)
		}
	}
}

type Exporter struct {
	logger  l.Wrapper
	cfg     config.Output
	storage stg.FileStorage

	appender     DocumentAppender
	tableWriters []TableWriter
}

func NewExporter(cfg config.Output, storage stg.FileStorage, logger l.Wrapper, opts ...Option) *Exporter {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if storage == nil {
		storage = rawfs.NewFSStorage(cfg.Root)
	}

	e := &Exporter{
		logger:  logger.WithFields(l.StringField(l.ClsKey, "Exporter")),
		cfg:     cfg,
		storage: storage,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Export writes the document file, hands the document to the appender and
// the rows to every table writer. Nothing is written when the source has no
// result. A failing destination does not stop the others.
func (e *Exporter) Export(ctx context.Context, source ResultSource) error {
	r, ok := source.Result()
	if !ok {
		e.logger.Debug("no cost result, nothing to export")

		return nil
	}

	doc, err := NewDocument(r).Marshal()
	if err != nil {
		return err
	}

	var errs []error

	fileName := e.cfg.FileNameFor(r.Scenario)

	if err = e.storage.WriteFile(fileName, doc); err != nil {
		e.logger.WithFields(l.ErrorField(err), l.StringField("file", fileName)).Error("write cost curve document failed")

		errs = append(errs, fmt.Errorf("write %s: %w", fileName, err))
	}

	if e.appender != nil {
		if err = e.appender.AppendDocument(ctx, doc, e.cfg.UpdateLocation); err != nil {
			e.logger.WithFields(l.ErrorField(err), l.StringField("location", e.cfg.UpdateLocation)).
				Error("append cost curve document failed")

			errs = append(errs, fmt.Errorf("append document: %w", err))
		}
	}

	if len(e.tableWriters) > 0 {
		rows := BuildRows(r, e.cfg.UnitConversion, e.cfg.Units)

		for _, w := range e.tableWriters {
			if err = w.WriteRows(ctx, r.Scenario, rows); err != nil {
				e.logger.WithFields(l.ErrorField(err)).Error("write cost rows failed")

				errs = append(errs, fmt.Errorf("write rows: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}
