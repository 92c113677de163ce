package postgres

// SQL queries for feature table persistence.

const (
	// queryInsertAnalysis records the header of one extraction run.
	queryInsertAnalysis = `
		INSERT INTO analyses (id, kind, row_count, created_at)
		VALUES ($1, $2, $3, $4)
	`

	// queryInsertValue stores one scalar feature. Row and feature positions
	// preserve the table's column ordering across a round trip.
	queryInsertValue = `
		INSERT INTO feature_values (
			analysis_id, row_label, row_position, feature, feature_position, value
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	// queryGetAnalysis distinguishes "unknown analysis" from "analysis with
	// zero stored values".
	queryGetAnalysis = `
		SELECT id, kind, row_count, created_at
		FROM analyses
		WHERE id = $1
	`

	queryGetValues = `
		SELECT row_label, row_position, feature, value
		FROM feature_values
		WHERE analysis_id = $1
		ORDER BY row_position ASC, feature_position ASC
	`

	queryListAnalyses = `
		SELECT id, kind, row_count, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`
)
