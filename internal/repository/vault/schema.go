package vault

import "github.com/Davg883/Sovereign-Isle/internal/db"

// Metadata field names stored on every DataVault hash.
const (
	FieldTitle            = "title"
	FieldSummary          = "summary"
	FieldSource           = "source"
	FieldURL              = "url"
	FieldStartDate        = "start_date"
	FieldEndDate          = "end_date"
	FieldStartTime        = "start_time"
	FieldEndTime          = "end_time"
	FieldStartDateNumeric = "start_date_numeric"
	FieldEndDateNumeric   = "end_date_numeric"
	FieldText             = "text"
	FieldLocation         = "location"
	FieldType             = "type"
)

// returnFields are fetched with every KNN match.
var returnFields = []string{
	FieldTitle, FieldSummary, FieldSource, FieldURL,
	FieldStartDate, FieldEndDate, FieldStartTime, FieldEndTime,
	FieldStartDateNumeric, FieldEndDateNumeric,
	FieldText, FieldLocation, FieldType,
}

// HNSWConfig holds HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// buildIndex describes the DataVault FT index: filterable tags and numeric
// date bounds plus the HNSW cosine vector field.
func buildIndex(name, prefix string, dim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Prefix(prefix).
		Tag(FieldType).
		Tag(FieldSource).
		Numeric(FieldStartDateNumeric).
		Numeric(FieldEndDateNumeric).
		VectorHNSW(db.VectorField, dim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
