package docstore

import (
	"context"
	"slices"
	"sync"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
)

const defaultFileName = "documents.json"

// Store collects documents under insertion locations, in append order, and
// persists them as one json file.
type Store struct {
	logger l.Wrapper
	d      *mwf.MemWithFile[map[string][]string, mwf.Serial, mwf.Lock]
}

func NewStore(storage stg.FileStorage, logger l.Wrapper) *Store {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	return &Store{
		logger: logger.WithFields(l.StringField(l.ClsKey, "docStore")),
		d: mwf.NewMemWithFile[map[string][]string, mwf.Serial, mwf.Lock](make(map[string][]string),
			&mwf.JSONSerial{}, &sync.RWMutex{}, defaultFileName, storage),
	}
}

func (impl *Store) AppendDocument(_ context.Context, doc []byte, location string) error {
	if location == "" || len(doc) == 0 {
		return commerr.ErrInvalidArgument
	}

	err := impl.d.Change(func(v map[string][]string) (newV map[string][]string, err error) {
		newV = v

		if newV == nil {
			newV = make(map[string][]string)
		}

		newV[location] = append(newV[location], string(doc))

		return
	})
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("location", location)).Error("append document failed")
	}

	return err
}

func (impl *Store) Documents(location string) (docs []string) {
	impl.d.Read(func(v map[string][]string) {
		docs = slices.Clone(v[location])
	})

	return
}

func (impl *Store) Locations() (locations []string) {
	impl.d.Read(func(v map[string][]string) {
		for location := range v {
			locations = append(locations, location)
		}
	})

	slices.Sort(locations)

	return
}
