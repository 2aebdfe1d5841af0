package database

import (
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// The similarity query must carry the distance ordering into the generated
// SQL; a chained Order() silently drops expression arguments, so the clause
// is attached explicitly. Asserted against the built statement since sqlite
// cannot execute the pgvector operator.
func TestEstimateRepoSimilarityQueryOrdersByDistance(t *testing.T) {
	db := newTestDB(t)

	var captured string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	}))

	repo := NewEstimateRepo(db.Session(&gorm.Session{DryRun: true}))
	_, err := repo.FindSimilar(pgvector.NewVector([]float32{1, 0, 0}), 3)
	require.NoError(t, err)

	require.Contains(t, captured, "embedding IS NOT NULL")
	require.Contains(t, captured, "ORDER BY embedding <-> ")
	require.Contains(t, captured, "LIMIT")
}
