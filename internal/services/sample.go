package services

import (
	"time"

	"github.com/geonotify/notify-backend/internal/engine"
	"github.com/geonotify/notify-backend/internal/models"
)

// sampleLabels seed the label columns of synthetic preview data.
var sampleLabels = []string{"North", "South", "East", "West", "Central"}

const sampleRecordCount = 5

// sampleRenderContext builds a deterministic synthetic context so a preview
// always renders something, with or without a reachable data source. Label
// fields (graph grouping columns) get region names; every other referenced
// field gets a stable numeric value derived from its name.
func sampleRenderContext(tmpl *models.Template) engine.RenderContext {
	labelFields := map[string]struct{}{}
	for _, el := range tmpl.VisualElements {
		if el.Type == models.ElementGraph && el.LabelField != "" {
			labelFields[el.LabelField] = struct{}{}
		}
	}

	names := referencedFields(tmpl)
	fields := make([]models.FieldMetadata, 0, len(names))
	for _, name := range names {
		fieldType := models.FieldTypeDouble
		if _, ok := labelFields[name]; ok {
			fieldType = models.FieldTypeString
		}
		fields = append(fields, models.FieldMetadata{Name: name, Type: fieldType, Alias: name})
	}

	records := make([]engine.Record, sampleRecordCount)
	for i := range records {
		rec := engine.Record{}
		for _, f := range fields {
			if f.Type == models.FieldTypeString {
				rec[f.Name] = sampleLabels[i%len(sampleLabels)]
			} else {
				rec[f.Name] = sampleValue(i, f.Name)
			}
		}
		records[i] = rec
	}

	end := time.Now()
	ctx := engine.RenderContext{
		Records:         records,
		Fields:          fields,
		RecordCount:     len(records),
		TotalCount:      len(records),
		StatisticValues: map[string]string{},
		GraphData:       map[string][]engine.GraphDatum{},
		Branding:        tmpl.Branding,
		Statistics:      tmpl.Statistics,
		IncludeCSV:      tmpl.IncludeCSV,
		DateRangeStart:  end.Add(-24 * time.Hour),
		DateRangeEnd:    end,
	}
	if tmpl.IncludeCSV {
		ctx.DownloadURL = "#"
	}

	for _, stat := range tmpl.Statistics {
		raw := engine.Evaluate(records, stat.Field, stat.Operation)
		ctx.StatisticValues[stat.ID] = engine.FormatValue(raw, stat.Format)
	}
	for _, el := range tmpl.VisualElements {
		if el.Type == models.ElementGraph {
			ctx.GraphData[el.ID] = engine.Aggregate(records, el.LabelField, el.DataField, el.Operation, el.MaxItems)
		}
	}
	return ctx
}

// sampleValue is a stable pseudo-value in [10, 100) keyed by row and field
// name, so repeated previews of the same template look identical.
func sampleValue(row int, field string) float64 {
	seed := 0
	for _, r := range field {
		seed += int(r)
	}
	return float64((row*31+seed*7)%90 + 10)
}

// referencedFields collects every remote field a template reads, in first
// reference order: statistic fields, filter rule fields, graph columns, and
// table columns.
func referencedFields(tmpl *models.Template) []string {
	seen := map[string]struct{}{}
	out := []string{}
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, stat := range tmpl.Statistics {
		add(stat.Field)
		if stat.Filter != nil {
			for _, rule := range stat.Filter.Rules {
				add(rule.Field)
			}
		}
	}
	for _, el := range tmpl.VisualElements {
		switch el.Type {
		case models.ElementGraph:
			add(el.LabelField)
			add(el.DataField)
		case models.ElementDataTable:
			for _, f := range el.Fields {
				add(f)
			}
		}
	}
	return out
}
