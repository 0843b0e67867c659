package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/engine"
	"github.com/geonotify/notify-backend/internal/models"
	"github.com/geonotify/notify-backend/pkg/logger"
)

// featureClient is the feature-service proxy interface used by the
// orchestrator.
type featureClient interface {
	Metadata(ctx context.Context, req dto.FeatureMetadataRequest) ([]models.FieldMetadata, error)
	Query(ctx context.Context, req dto.FeatureQueryRequest) (dto.FeatureQueryResponse, error)
	Count(ctx context.Context, req dto.FeatureQueryRequest) (int, error)
}

const (
	// matchAll is the where clause for an unfiltered layer query.
	matchAll = "1=1"

	// clientFetchLimit caps a per-filter-group record fetch when an
	// aggregate must be evaluated locally.
	clientFetchLimit = 1000

	// graphAggregateField is the aggregate column name requested on
	// grouped queries.
	graphAggregateField = "aggregate_value"

	// groupedAttributeLimit is the most attributes a genuinely grouped row
	// carries: the grouping label, the aggregate, and at most one
	// bookkeeping column. Rows wider than this are raw records from a
	// layer that ignored groupByFieldsForStatistics.
	groupedAttributeLimit = 3
)

// fetchState tracks concurrent fetches against one data signature. gen
// orders overlapping fetches so a slow early completion cannot overwrite the
// snapshot of a later one; good holds the last snapshot a current fetch
// produced.
type fetchState struct {
	gen  uint64
	good *engine.RenderContext
}

type previewService struct {
	features    featureClient
	sampleLimit int

	mu     sync.Mutex
	states map[string]*fetchState
}

func NewPreviewService(features featureClient, sampleLimit int) *previewService {
	if sampleLimit <= 0 {
		sampleLimit = 25
	}
	return &previewService{
		features:    features,
		sampleLimit: sampleLimit,
		states:      map[string]*fetchState{},
	}
}

// Preview compiles the template against live or sample data. A live request
// that cannot reach the data source degrades to the last good snapshot, then
// to sample data; it never fails the preview.
func (s *previewService) Preview(ctx context.Context, tmpl *models.Template, req dto.PreviewRequest) (dto.PreviewResponse, error) {
	rctx, diags, live := s.BuildRenderContext(ctx, tmpl, req.Live)
	return dto.PreviewResponse{
		HTML:        compileTemplate(tmpl, rctx),
		Live:        live,
		Diagnostics: diags,
	}, nil
}

// BuildRenderContext assembles the data snapshot a compile resolves against.
// The returned flag reports whether live data backs the snapshot.
func (s *previewService) BuildRenderContext(ctx context.Context, tmpl *models.Template, live bool) (engine.RenderContext, []dto.FetchDiagnostic, bool) {
	if !live || tmpl.DataSource.Endpoint == "" {
		return sampleRenderContext(tmpl), nil, false
	}

	key := fetchKey(tmpl)
	gen := s.begin(key)

	rctx, diags, err := s.fetchLive(ctx, tmpl)
	if err == nil {
		s.complete(key, gen, &rctx)
		return rctx, diags, true
	}

	logger.FromContext(ctx).Warn("live fetch failed, downgrading preview",
		"endpoint", tmpl.DataSource.Endpoint, "error", err)

	if prev := s.lastGood(key); prev != nil {
		diags = append(diags, dto.FetchDiagnostic{
			Step: "sample", Target: tmpl.DataSource.Endpoint, OK: false, Fallback: true,
			Message: "reusing the last successful fetch",
		})
		return *prev, diags, true
	}
	return sampleRenderContext(tmpl), diags, false
}

// compileTemplate renders a template against a snapshot: hand-edited html is
// resolved in place, otherwise the document is composed from the element
// list.
func compileTemplate(tmpl *models.Template, rctx engine.RenderContext) string {
	if strings.TrimSpace(tmpl.HTML) != "" {
		return engine.ResolvePlaceholders(tmpl.HTML, tmpl.VisualElements, tmpl.Theme, rctx)
	}
	return engine.Compile(tmpl.VisualElements, tmpl.Theme, rctx)
}

// fetchLive runs the full fetch sequence: metadata, total count, sample
// records, then per-statistic and per-graph aggregates with server-side
// evaluation preferred and client-side evaluation as the fallback tier.
// Metadata and record failures abort; aggregate failures degrade per panel.
func (s *previewService) fetchLive(ctx context.Context, tmpl *models.Template) (engine.RenderContext, []dto.FetchDiagnostic, error) {
	endpoint := tmpl.DataSource.Endpoint
	diags := []dto.FetchDiagnostic{}

	fields, err := s.features.Metadata(ctx, dto.FeatureMetadataRequest{
		Endpoint: endpoint,
		Username: tmpl.DataSource.Username,
		Password: tmpl.DataSource.Password,
	})
	if err != nil {
		diags = append(diags, failDiag("metadata", endpoint, err))
		return engine.RenderContext{}, diags, err
	}
	diags = append(diags, okDiag("metadata", endpoint))

	total, err := s.features.Count(ctx, s.queryRequest(tmpl, matchAll))
	if err != nil {
		// the sample fetch still tells us how many records we hold
		diags = append(diags, failDiag("count", endpoint, err))
		total = 0
	} else {
		diags = append(diags, okDiag("count", endpoint))
	}

	sampleReq := s.queryRequest(tmpl, matchAll)
	sampleReq.OutFields = outFields(tmpl)
	sampleReq.ResultRecordCount = s.sampleLimit
	sampleResp, err := s.features.Query(ctx, sampleReq)
	if err != nil {
		diags = append(diags, failDiag("sample", endpoint, err))
		return engine.RenderContext{}, diags, err
	}
	diags = append(diags, okDiag("sample", endpoint))
	records := asRecords(sampleResp.Features)
	if total < len(records) {
		total = len(records)
	}

	end := time.Now()
	rctx := engine.RenderContext{
		Records:         records,
		Fields:          fields,
		RecordCount:     len(records),
		TotalCount:      total,
		StatisticValues: map[string]string{},
		GraphData:       map[string][]engine.GraphDatum{},
		Branding:        tmpl.Branding,
		Statistics:      tmpl.Statistics,
		IncludeCSV:      tmpl.IncludeCSV,
		DateRangeStart:  end.Add(-24 * time.Hour),
		DateRangeEnd:    end,
	}
	if tmpl.IncludeCSV {
		rctx.DownloadURL = "#"
	}
	if total > len(records) {
		rctx.MoreRecords = fmt.Sprintf("Showing the first %d of %d matching records.", len(records), total)
	}

	diags = append(diags, s.fetchStatistics(ctx, tmpl, records, rctx.StatisticValues)...)
	diags = append(diags, s.fetchGraphs(ctx, tmpl, records, rctx.GraphData)...)
	return rctx, diags, nil
}

// fetchStatistics evaluates every configured statistic. Statistics sharing a
// where clause form one filter group; each group costs at most one
// server-side statistics query plus, when needed, one record fetch for
// client-side evaluation.
func (s *previewService) fetchStatistics(ctx context.Context, tmpl *models.Template, sample []engine.Record, values map[string]string) []dto.FetchDiagnostic {
	diags := []dto.FetchDiagnostic{}

	groups := map[string][]models.Statistic{}
	for _, stat := range tmpl.Statistics {
		where := engine.WhereClause(stat.Filter)
		groups[where] = append(groups[where], stat)
	}
	wheres := make([]string, 0, len(groups))
	for where := range groups {
		wheres = append(wheres, where)
	}
	sort.Strings(wheres)

	for _, where := range wheres {
		group := groups[where]
		server := make([]models.Statistic, 0, len(group))
		client := make([]models.Statistic, 0, len(group))
		for _, stat := range group {
			if engine.ServerAggregable(stat.Operation) {
				server = append(server, stat)
			} else {
				client = append(client, stat)
			}
		}

		if len(server) > 0 {
			req := s.queryRequest(tmpl, where)
			for _, stat := range server {
				req.OutStatistics = append(req.OutStatistics, dto.OutStatistic{
					StatisticType:         engine.RemoteStatisticType(stat.Operation),
					OnStatisticField:      stat.Field,
					OutStatisticFieldName: stat.ID,
				})
			}
			resp, err := s.features.Query(ctx, req)
			if err != nil || len(resp.Features) == 0 {
				// the whole group re-evaluates locally
				diags = append(diags, failDiag("statistics", where, err))
				client = append(client, server...)
			} else {
				row := engine.Record(resp.Features[0].Attributes)
				missing := false
				for _, stat := range server {
					raw, ok := engine.LookupField(row, stat.ID)
					if !ok {
						missing = true
						client = append(client, stat)
						continue
					}
					values[stat.ID] = engine.FormatValue(raw, stat.Format)
				}
				diags = append(diags, dto.FetchDiagnostic{Step: "statistics", Target: where, OK: true, Fallback: missing})
			}
		}

		if len(client) == 0 {
			continue
		}
		records, fellBack, err := s.groupRecords(ctx, tmpl, where, sample)
		if err != nil {
			// sample data stands in; values already set stay untouched
			diags = append(diags, failDiag("statistics", where, err))
			records = sample
		} else if fellBack {
			diags = append(diags, dto.FetchDiagnostic{Step: "statistics", Target: where, OK: true, Fallback: true})
		}
		for _, stat := range client {
			raw := engine.Evaluate(records, stat.Field, stat.Operation)
			values[stat.ID] = engine.FormatValue(raw, stat.Format)
		}
	}
	return diags
}

// groupRecords returns the records a filter group evaluates over. The
// unfiltered group reuses the already-fetched sample; filtered groups cost
// one field-limited fetch each.
func (s *previewService) groupRecords(ctx context.Context, tmpl *models.Template, where string, sample []engine.Record) ([]engine.Record, bool, error) {
	if where == matchAll {
		return sample, false, nil
	}
	req := s.queryRequest(tmpl, where)
	req.OutFields = outFields(tmpl)
	req.ResultRecordCount = clientFetchLimit
	resp, err := s.features.Query(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return asRecords(resp.Features), true, nil
}

// fetchGraphs aggregates every graph element, preferring a grouped
// server-side query. Some layers silently ignore groupByFieldsForStatistics
// and answer with raw records; that shape is detected and re-aggregated
// locally rather than charted as-is.
func (s *previewService) fetchGraphs(ctx context.Context, tmpl *models.Template, sample []engine.Record, graphs map[string][]engine.GraphDatum) []dto.FetchDiagnostic {
	diags := []dto.FetchDiagnostic{}

	for _, el := range tmpl.VisualElements {
		if el.Type != models.ElementGraph {
			continue
		}
		operation := el.Operation
		if el.DataField == "" {
			operation = models.OpCount
		}

		if !engine.ServerAggregable(operation) {
			graphs[el.ID] = engine.Aggregate(sample, el.LabelField, el.DataField, el.Operation, el.MaxItems)
			diags = append(diags, dto.FetchDiagnostic{Step: "graph", Target: el.ID, OK: true, Fallback: true})
			continue
		}

		onField := el.DataField
		if operation == models.OpCount {
			onField = el.LabelField
		}
		req := s.queryRequest(tmpl, matchAll)
		req.GroupByFieldsForStatistics = el.LabelField
		req.OutStatistics = []dto.OutStatistic{{
			StatisticType:         engine.RemoteStatisticType(operation),
			OnStatisticField:      onField,
			OutStatisticFieldName: graphAggregateField,
		}}

		resp, err := s.features.Query(ctx, req)
		if err != nil {
			diags = append(diags, failDiag("graph", el.ID, err))
			graphs[el.ID] = engine.Aggregate(sample, el.LabelField, el.DataField, el.Operation, el.MaxItems)
			continue
		}

		if !groupingHonored(resp.Features) {
			// raw records came back; aggregate them here instead
			diags = append(diags, dto.FetchDiagnostic{Step: "graph", Target: el.ID, OK: true, Fallback: true,
				Message: "layer ignored grouping, aggregated locally"})
			graphs[el.ID] = engine.Aggregate(asRecords(resp.Features), el.LabelField, el.DataField, el.Operation, el.MaxItems)
			continue
		}

		data := make([]engine.GraphDatum, 0, len(resp.Features))
		for _, f := range resp.Features {
			row := engine.Record(f.Attributes)
			value, ok := aggregateValue(row)
			if !ok {
				continue
			}
			raw, _ := engine.LookupField(row, el.LabelField)
			data = append(data, engine.GraphDatum{Label: labelString(raw), Value: value})
		}
		graphs[el.ID] = engine.NormalizeGraph(data, el.MaxItems)
		diags = append(diags, okDiag("graph", el.ID))
	}
	return diags
}

// groupingHonored reports whether a grouped-statistics response actually
// contains grouped rows. A honored grouping yields narrow rows carrying the
// aggregate column; anything wider is the raw record set.
func groupingHonored(features []dto.Feature) bool {
	for _, f := range features {
		if len(f.Attributes) > groupedAttributeLimit {
			return false
		}
		if _, ok := aggregateValue(engine.Record(f.Attributes)); !ok {
			return false
		}
	}
	return true
}

// aggregateValue extracts the aggregate column from a grouped row. Layers
// disagree on naming: most echo the requested name, some substitute their
// own statistic column.
func aggregateValue(row engine.Record) (float64, bool) {
	for _, name := range []string{graphAggregateField, "value", "count"} {
		if raw, ok := engine.LookupField(row, name); ok {
			if n, ok := engine.TryParseNumeric(raw); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func (s *previewService) queryRequest(tmpl *models.Template, where string) dto.FeatureQueryRequest {
	return dto.FeatureQueryRequest{
		Endpoint: tmpl.DataSource.Endpoint,
		Where:    where,
		Username: tmpl.DataSource.Username,
		Password: tmpl.DataSource.Password,
	}
}

// outFields limits record fetches to the columns the template reads. A data
// table without an explicit column list needs every field.
func outFields(tmpl *models.Template) []string {
	for _, el := range tmpl.VisualElements {
		if el.Type == models.ElementDataTable && len(el.Fields) == 0 {
			return nil
		}
	}
	return referencedFields(tmpl)
}

func asRecords(features []dto.Feature) []engine.Record {
	records := make([]engine.Record, 0, len(features))
	for _, f := range features {
		records = append(records, engine.Record(f.Attributes))
	}
	return records
}

func labelString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
		return strconv.FormatFloat(t, 'f', 2, 64)
	default:
		return fmt.Sprint(t)
	}
}

func okDiag(step, target string) dto.FetchDiagnostic {
	return dto.FetchDiagnostic{Step: step, Target: target, OK: true}
}

func failDiag(step, target string, err error) dto.FetchDiagnostic {
	d := dto.FetchDiagnostic{Step: step, Target: target, OK: false, Fallback: true}
	if err != nil {
		d.Message = err.Error()
	}
	return d
}

// fetchKey identifies one data signature: endpoint, filter set, and field
// set. Overlapping fetches for the same signature are ordered by generation.
func fetchKey(tmpl *models.Template) string {
	wheres := map[string]struct{}{matchAll: {}}
	for _, stat := range tmpl.Statistics {
		wheres[engine.WhereClause(stat.Filter)] = struct{}{}
	}
	sorted := make([]string, 0, len(wheres))
	for w := range wheres {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)
	return tmpl.DataSource.Endpoint + "|" + strings.Join(sorted, ";") + "|" + strings.Join(referencedFields(tmpl), ",")
}

func (s *previewService) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	if !ok {
		st = &fetchState{}
		s.states[key] = st
	}
	st.gen++
	return st.gen
}

// complete records a successful snapshot unless a newer fetch for the same
// signature has started; stale completions are dropped so they cannot
// overwrite fresher data.
func (s *previewService) complete(key string, gen uint64, rctx *engine.RenderContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	if !ok || st.gen != gen {
		return
	}
	st.good = rctx
}

func (s *previewService) lastGood(key string) *engine.RenderContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[key]; ok {
		return st.good
	}
	return nil
}
