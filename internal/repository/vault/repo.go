// Package vault is the DataVault repository: the curated vector-indexed
// knowledge base of locations, events and stories.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Davg883/Sovereign-Isle/internal/db"
	"github.com/Davg883/Sovereign-Isle/internal/domain/search/filter"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
)

const (
	pruneBatch    = 500
	pruneMaxPages = 100
)

// store is the consumer interface for the DataVault (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Config locates the DataVault index.
type Config struct {
	IndexName  string
	KeyPrefix  string
	Dimensions int
	HNSW       HNSWConfig
}

// Repo implements the DataVault vector store.
type Repo struct {
	store store
	cfg   Config
}

// New creates a DataVault repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// EnsureIndex creates the DataVault index unless it already exists.
// Returns true when the index was created by this call.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.cfg.IndexName)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.cfg.IndexName, err)
	}
	if exists {
		return false, nil
	}

	def, err := buildIndex(r.cfg.IndexName, r.cfg.KeyPrefix, r.cfg.Dimensions, r.cfg.HNSW)
	if err != nil {
		return false, fmt.Errorf("build index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// lost a race with another replica
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", r.cfg.IndexName, err)
	}
	return true, nil
}

// Query returns the topK nearest records matching the metadata filter.
func (r *Repo) Query(ctx context.Context, vector []float32, topK int, f filter.Expression) ([]source.Retrieved, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		Filters:      f,
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("query datavault: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	sources := make([]source.Retrieved, 0, len(sr.Entries))
	for i, entry := range sr.Entries {
		sources = append(sources, r.toSource(i, entry))
	}
	return sources, nil
}

// toSource maps a heterogeneous stored record without failing on missing fields.
func (r *Repo) toSource(idx int, entry db.SearchEntry) source.Retrieved {
	f := entry.Fields
	score := entry.Score

	sourcePath := strings.TrimSpace(f[FieldSource])
	if sourcePath == "" {
		sourcePath = "MATCH_" + strconv.Itoa(idx+1)
	}
	title := strings.TrimSpace(f[FieldTitle])
	if title == "" {
		title = "Source " + strconv.Itoa(idx+1)
	}

	return source.Retrieved{
		ID:               strings.TrimPrefix(entry.Key, r.cfg.KeyPrefix),
		Title:            title,
		Summary:          optional(f, FieldSummary),
		SourcePath:       source.BasePath(sourcePath),
		URL:              optional(f, FieldURL),
		Score:            &score,
		StartDate:        optional(f, FieldStartDate),
		EndDate:          optional(f, FieldEndDate),
		StartTime:        optional(f, FieldStartTime),
		EndTime:          optional(f, FieldEndTime),
		StartDateNumeric: optionalInt(f, FieldStartDateNumeric),
		EndDateNumeric:   optionalInt(f, FieldEndDateNumeric),
		FullText:         f[FieldText],
		Location:         optional(f, FieldLocation),
		Type:             optional(f, FieldType),
		MatchType:        source.Orphan,
	}
}

func optional(fields map[string]string, name string) *string {
	v, ok := fields[name]
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func optionalInt(fields map[string]string, name string) *int {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// Record is one DataVault entry to upsert.
type Record struct {
	ID        string
	Vector    []float32
	Title     string
	Summary   string
	Source    string
	URL       string
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
	Text      string
	Location  string
	Type      string
}

// Upsert writes records as hashes; numeric date fields are derived from the ISO dates.
func (r *Repo) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(records))
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			return fmt.Errorf("record %d: id is required", i)
		}
		if len(rec.Vector) != r.cfg.Dimensions {
			return fmt.Errorf("record %s: vector has %d dimensions, index expects %d",
				rec.ID, len(rec.Vector), r.cfg.Dimensions)
		}
		items = append(items, db.HashSetItem{
			Key:    r.cfg.KeyPrefix + rec.ID,
			Fields: recordFields(rec),
		})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert datavault: %w", err)
	}
	return nil
}

func recordFields(rec *Record) map[string]string {
	fields := map[string]string{
		db.VectorField: db.EncodeVector(rec.Vector),
		FieldText:      rec.Text,
	}
	set := func(name, value string) {
		if value != "" {
			fields[name] = value
		}
	}
	set(FieldTitle, rec.Title)
	set(FieldSummary, rec.Summary)
	set(FieldSource, rec.Source)
	set(FieldURL, rec.URL)
	set(FieldStartDate, rec.StartDate)
	set(FieldEndDate, rec.EndDate)
	set(FieldStartTime, rec.StartTime)
	set(FieldEndTime, rec.EndTime)
	set(FieldLocation, rec.Location)
	set(FieldType, rec.Type)

	if n, ok := temporal.NumericDate(rec.StartDate); ok {
		fields[FieldStartDateNumeric] = strconv.Itoa(n)
	}
	if n, ok := temporal.NumericDate(rec.EndDate); ok {
		fields[FieldEndDateNumeric] = strconv.Itoa(n)
	}
	return fields
}

// DeleteEventsEndedBefore removes Event records whose end date is strictly
// before the given numeric date. Returns the number of deleted keys.
func (r *Repo) DeleteEventsEndedBefore(ctx context.Context, numericDate int) (int, error) {
	f, err := expiredEventFilter(numericDate)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for range pruneMaxPages {
		// always page from 0: each round deletes what it found
		sr, err := r.store.SearchList(ctx, &db.ListQuery{
			IndexName: r.cfg.IndexName,
			Filters:   f,
			Limit:     pruneBatch,
		})
		if err != nil {
			return deleted, fmt.Errorf("list expired events: %w", err)
		}
		if sr == nil || len(sr.Entries) == 0 {
			return deleted, nil
		}

		keys := make([]string, len(sr.Entries))
		for i, e := range sr.Entries {
			keys[i] = e.Key
		}
		n, err := r.store.Del(ctx, keys...)
		if err != nil {
			return deleted, fmt.Errorf("delete expired events: %w", err)
		}
		deleted += n
		if len(sr.Entries) < pruneBatch || n == 0 {
			return deleted, nil
		}
	}
	return deleted, nil
}

func expiredEventFilter(numericDate int) (filter.Expression, error) {
	typ, err := filter.NewMatch(FieldType, "Event")
	if err != nil {
		return filter.Expression{}, err
	}
	bound := float64(numericDate)
	rng, err := filter.NewRangeFilter(nil, nil, &bound, nil)
	if err != nil {
		return filter.Expression{}, err
	}
	end, err := filter.NewRange(FieldEndDateNumeric, rng)
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression([]filter.Condition{typ, end}, nil, nil)
}
