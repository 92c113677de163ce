package signal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecording_AddColumn(t *testing.T) {
	rec := NewRecording()
	require.NoError(t, rec.AddColumn("RSP_Rate", []float64{10, 12, 14}))
	require.NoError(t, rec.AddColumn("RSP_Amplitude", []float64{0.5, 0.7, 0.6}))
	require.Equal(t, 3, rec.Rows())
	require.Equal(t, []string{"RSP_Rate", "RSP_Amplitude"}, rec.ColumnNames())

	values, ok := rec.Column("RSP_Rate")
	require.True(t, ok)
	require.Equal(t, []float64{10, 12, 14}, values)

	_, ok = rec.Column("RSP_Phase")
	require.False(t, ok)
}

func TestRecording_AddColumnRejectsBadInput(t *testing.T) {
	rec := NewRecording()
	require.NoError(t, rec.AddColumn("RSP_Rate", []float64{10, 12}))

	require.Error(t, rec.AddColumn("RSP_Rate", []float64{1, 2}), "duplicate name")
	require.Error(t, rec.AddColumn("RSP_Amplitude", []float64{1}), "length mismatch")
	require.Error(t, rec.AddColumn("", []float64{1, 2}), "empty name")
}

func TestRecording_MatchColumns(t *testing.T) {
	rec := NewRecording()
	require.NoError(t, rec.AddColumn("RSP_Clean", []float64{1}))
	require.NoError(t, rec.AddColumn("RSP_Rate", []float64{1}))
	require.NoError(t, rec.AddColumn("RSP_Rate_Alt", []float64{1}))
	require.NoError(t, rec.AddColumn("RSP_Amplitude", []float64{1}))

	require.Equal(t, []string{"RSP_Rate", "RSP_Rate_Alt"}, rec.MatchColumns("RSP_Rate"))
	require.Equal(t, []string{"RSP_Amplitude"}, rec.MatchColumns("RSP_Amplitude"))
	require.Empty(t, rec.MatchColumns("RSP_Phase"))
}

func TestCollection_NamesSorted(t *testing.T) {
	coll := Collection{
		"b": NewRecording(),
		"a": NewRecording(),
		"c": NewRecording(),
	}
	require.Equal(t, []string{"a", "b", "c"}, coll.Names())
}
