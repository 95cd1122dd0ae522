package curve

import (
	"sort"

	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"gopkg.in/yaml.v3"
)

// RegionCurves maps a region name to a curve it exclusively owns.
type RegionCurves map[string]Curve

func (rc RegionCurves) Clone() RegionCurves {
	if rc == nil {
		return nil
	}

	cloned := make(RegionCurves, len(rc))

	for region, c := range rc {
		cloned[region] = c.Clone()
	}

	return cloned
}

func (rc RegionCurves) Regions() []string {
	regions := make([]string, 0, len(rc))

	for region := range rc {
		regions = append(regions, region)
	}

	sort.Strings(regions)

	return regions
}

func (rc RegionCurves) SameRegions(o RegionCurves) bool {
	if len(rc) != len(o) {
		return false
	}

	for region := range rc {
		if _, ok := o[region]; !ok {
			return false
		}
	}

	return true
}

//
//
//

func NewFileStorage(storage stg.FileStorage) Storage {
	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	return &fileStorageImpl{
		storage: storage,
	}
}

type fileStorageImpl struct {
	storage stg.FileStorage
}

func (impl *fileStorageImpl) Load(key string) (c Curve, err error) {
	d, err := impl.storage.ReadFile(key)
	if err != nil {
		return
	}

	var record Record

	err = yaml.Unmarshal(d, &record)
	if err != nil {
		return
	}

	psc, err := NewPointSetCurveFromPoints(record.Points, WithTitle(record.Title))
	if err != nil {
		return
	}

	psc.SetNumericalLabel(record.Label)
	c = psc

	return
}

func (impl *fileStorageImpl) Save(key string, c Curve) (err error) {
	d, err := yaml.Marshal(&Record{
		Title:  c.GetTitle(),
		Label:  c.GetNumericalLabel(),
		Points: c.Points(),
	})
	if err != nil {
		return
	}

	err = impl.storage.WriteFile(key, d)

	return
}
