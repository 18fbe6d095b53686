package replies

import (
	"fmt"

	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/internal/util"
)

// decoder carries the name of the reply being decoded into its errors.
type decoder struct {
	reply string
}

func (d decoder) mismatch(path, expected string, got models.Value) error {
	n := len(got.Array)
	if got.Kind == models.KindMap {
		n = len(got.Map)
	}
	return &ShapeError{Reply: d.reply, Path: path, Expected: expected, Got: got.Kind, Len: n}
}

func (d decoder) convert(path string, v models.Value, err error) error {
	return &ConversionError{Reply: d.reply, Path: path, Value: v, Err: err}
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func field(path, name string) string {
	return path + "." + name
}

// list accepts an array, or nil as an empty list.
func (d decoder) list(v models.Value, path string) ([]models.Value, error) {
	switch v.Kind {
	case models.KindArray:
		return v.Array, nil
	case models.KindNil:
		return nil, nil
	default:
		return nil, d.mismatch(path, "array", v)
	}
}

// tuple requires an array of exactly n elements.
func (d decoder) tuple(v models.Value, path string, n int) ([]models.Value, error) {
	if v.Kind != models.KindArray || len(v.Array) != n {
		return nil, d.mismatch(path, fmt.Sprintf("array of %d", n), v)
	}
	return v.Array, nil
}

// pairs reads a mapping: a RESP3 map, or a RESP2 array of alternating keys
// and values. Nil reads as an empty mapping.
func (d decoder) pairs(v models.Value, path string) ([]models.Pair, error) {
	switch v.Kind {
	case models.KindMap:
		return v.Map, nil
	case models.KindNil:
		return nil, nil
	case models.KindArray:
		if len(v.Array)%2 != 0 {
			return nil, d.mismatch(path, "mapping (even-length array)", v)
		}
		out := make([]models.Pair, 0, len(v.Array)/2)
		for i := 0; i < len(v.Array); i += 2 {
			out = append(out, models.Pair{Key: v.Array[i], Value: v.Array[i+1]})
		}
		return out, nil
	default:
		return nil, d.mismatch(path, "mapping", v)
	}
}

// single reads a mapping holding exactly one key.
func (d decoder) single(v models.Value, path string) (string, models.Value, error) {
	if v.Kind == models.KindNil {
		return "", models.Value{}, d.mismatch(path, "single-entry mapping", v)
	}
	ps, err := d.pairs(v, path)
	if err != nil {
		return "", models.Value{}, err
	}
	if len(ps) != 1 {
		return "", models.Value{}, d.mismatch(path, "single-entry mapping", v)
	}
	key, err := d.bulk(ps[0].Key, path+".key")
	if err != nil {
		return "", models.Value{}, err
	}
	return key, ps[0].Value, nil
}

func (d decoder) bulk(v models.Value, path string) (string, error) {
	if v.Kind != models.KindBulk {
		return "", d.mismatch(path, "bulk string", v)
	}
	return v.Bulk, nil
}

// optBulk reads a bulk string, or nil as "".
func (d decoder) optBulk(v models.Value, path string) (string, error) {
	if v.Kind == models.KindNil {
		return "", nil
	}
	return d.bulk(v, path)
}

// integer reads an integer reply or a bulk string holding one.
func (d decoder) integer(v models.Value, path string) (int64, error) {
	switch v.Kind {
	case models.KindInteger:
		return v.Int, nil
	case models.KindBulk:
		n, err := util.ParseInt(v)
		if err != nil {
			return 0, d.convert(path, v, err)
		}
		return n, nil
	default:
		return 0, d.mismatch(path, "integer", v)
	}
}

// entry reads one (id, field-map) pair.
func (d decoder) entry(v models.Value, path string) (models.StreamEntry, error) {
	var (
		id     string
		fields models.Value
		err    error
	)
	switch v.Kind {
	case models.KindArray:
		parts, err := d.tuple(v, path, 2)
		if err != nil {
			return models.StreamEntry{}, err
		}
		if id, err = d.bulk(parts[0], path+".id"); err != nil {
			return models.StreamEntry{}, err
		}
		fields = parts[1]
	case models.KindMap:
		if id, fields, err = d.single(v, path); err != nil {
			return models.StreamEntry{}, err
		}
	default:
		return models.StreamEntry{}, d.mismatch(path, "entry (id, fields)", v)
	}

	ps, err := d.pairs(fields, path+".fields")
	if err != nil {
		return models.StreamEntry{}, err
	}
	entry := models.NewStreamEntry(id)
	for i, p := range ps {
		name, err := d.bulk(p.Key, index(path+".fields", i*2))
		if err != nil {
			return models.StreamEntry{}, err
		}
		entry.Set(name, p.Value)
	}
	return entry, nil
}

func (d decoder) entries(v models.Value, path string) ([]models.StreamEntry, error) {
	items, err := d.list(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]models.StreamEntry, 0, len(items))
	for i, item := range items {
		e, err := d.entry(item, index(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d decoder) bulks(v models.Value, path string) ([]string, error) {
	items, err := d.list(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := d.bulk(item, index(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
