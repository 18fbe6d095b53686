package main

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/pretty"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

type entryView struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields,omitempty"`
}

type keyView struct {
	Key     string      `json:"key"`
	Entries []entryView `json:"entries"`
}

func valueText(v models.Value) string {
	switch v.Kind {
	case models.KindBulk:
		return v.Bulk
	case models.KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case models.KindNil:
		return ""
	default:
		return v.String()
	}
}

func viewEntry(e models.StreamEntry) entryView {
	view := entryView{ID: e.ID}
	if e.Len() > 0 {
		view.Fields = make(map[string]string, e.Len())
		for _, name := range e.FieldNames() {
			view.Fields[name] = valueText(e.Fields[name])
		}
	}
	return view
}

func viewEntries(entries []models.StreamEntry) []entryView {
	views := make([]entryView, len(entries))
	for i, e := range entries {
		views[i] = viewEntry(e)
	}
	return views
}

func viewOptEntry(e *models.StreamEntry) *entryView {
	if e == nil {
		return nil
	}
	view := viewEntry(*e)
	return &view
}

func (a *app) print(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if a.pretty {
		b = pretty.Pretty(b)
	} else {
		b = append(b, '\n')
	}
	_, err = a.out.Write(b)
	return err
}
