package stations

import (
	"courier-slot-service/internal/domain"
	"slices"
	"strings"
)

// Index maps normalized keys to stations. It is built once and is safe
// for concurrent readers.
type Index struct {
	byKey map[string]*domain.Station
	order []string
}

// NewIndex builds an index from raw station records. Records whose names
// normalize to the same key are merged: the first record's name and
// coordinates win and line sets are united.
func NewIndex(records []domain.Station) *Index {
	idx := &Index{byKey: make(map[string]*domain.Station, len(records))}

	for _, r := range records {
		key := Normalize(r.Name)
		if key == "" {
			continue
		}

		if existing, ok := idx.byKey[key]; ok {
			for _, l := range r.Lines {
				if !slices.Contains(existing.Lines, l) {
					existing.Lines = append(existing.Lines, l)
				}
			}
			continue
		}

		st := &domain.Station{
			Name:   r.Name,
			Key:    key,
			Coords: r.Coords,
			Lines:  slices.Clone(r.Lines),
		}
		idx.byKey[key] = st
		idx.order = append(idx.order, key)
	}

	return idx
}

// Lookup resolves a free-form name. An exact normalized match wins;
// otherwise the first key (in load order) that contains, or is contained
// by, the query is returned. Ambiguous partial matches are not ranked.
func (x *Index) Lookup(name string) (*domain.Station, bool) {
	q := Normalize(name)
	if q == "" {
		return nil, false
	}

	if st, ok := x.byKey[q]; ok {
		return st, true
	}

	for _, key := range x.order {
		if strings.Contains(key, q) || strings.Contains(q, key) {
			return x.byKey[key], true
		}
	}

	return nil, false
}

func (x *Index) Len() int { return len(x.order) }

// Stations returns the indexed stations in load order.
func (x *Index) Stations() []domain.Station {
	out := make([]domain.Station, 0, len(x.order))
	for _, key := range x.order {
		out = append(out, *x.byKey[key])
	}
	return out
}
