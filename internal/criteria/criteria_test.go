package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeXLSX builds a single-sheet workbook from string rows.
func writeXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	data := writeXLSX(t, [][]any{
		{"Name", "Description", "Weight"},
		{"Pacing", "Momentum between scenes", 3},
		{"Dialogue", "Voice distinction and subtext", 1},
	})

	cs, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, 2, cs.Len())

	assert.Equal(t, "Pacing", cs.Criteria[0].Name)
	assert.Equal(t, "Momentum between scenes", cs.Criteria[0].Description)
	assert.Equal(t, 3.0, cs.Criteria[0].Weight)
	assert.Equal(t, "Dialogue", cs.Criteria[1].Name)
	assert.Equal(t, 1.0, cs.Criteria[1].Weight)
}

func TestLoadColumnOrderAndCaseInsensitive(t *testing.T) {
	data := writeXLSX(t, [][]any{
		{"WEIGHT", "name", "Description"},
		{2.5, "Theme", "Coherence of thematic throughline"},
	})

	cs, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, 1, cs.Len())
	assert.Equal(t, "Theme", cs.Criteria[0].Name)
	assert.Equal(t, 2.5, cs.Criteria[0].Weight)
}

func TestLoadSkipsBlankRows(t *testing.T) {
	data := writeXLSX(t, [][]any{
		{"Name", "Description", "Weight"},
		{"", "", ""},
		{"Stakes", "Escalation of consequence", 1},
		{"", "", ""},
	})

	cs, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, 1, cs.Len())
	assert.Equal(t, "Stakes", cs.Criteria[0].Name)
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]any
		wantErr error
		wantMsg string
	}{
		{
			name: "missing weight column",
			rows: [][]any{
				{"Name", "Description"},
				{"Pacing", "Momentum"},
			},
			wantErr: ErrMalformedTemplate,
			wantMsg: "weight",
		},
		{
			name: "missing name and description columns",
			rows: [][]any{
				{"Weight"},
				{3},
			},
			wantErr: ErrMalformedTemplate,
			wantMsg: "name, description",
		},
		{
			name: "non-numeric weight",
			rows: [][]any{
				{"Name", "Description", "Weight"},
				{"Pacing", "Momentum", "heavy"},
			},
			wantErr: ErrMalformedTemplate,
			wantMsg: "not numeric",
		},
		{
			name: "zero weight",
			rows: [][]any{
				{"Name", "Description", "Weight"},
				{"Pacing", "Momentum", 0},
			},
			wantErr: ErrMalformedTemplate,
			wantMsg: "positive",
		},
		{
			name: "negative weight",
			rows: [][]any{
				{"Name", "Description", "Weight"},
				{"Pacing", "Momentum", -2},
			},
			wantErr: ErrMalformedTemplate,
			wantMsg: "positive",
		},
		{
			name: "row with weight but no name",
			rows: [][]any{
				{"Name", "Description", "Weight"},
				{"", "Momentum", 3},
			},
			wantErr: ErrMalformedTemplate,
			wantMsg: "no criterion name",
		},
		{
			name: "header only",
			rows: [][]any{
				{"Name", "Description", "Weight"},
			},
			wantErr: ErrEmptyTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeXLSX(t, tt.rows))
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadRejectsNonSpreadsheet(t *testing.T) {
	_, err := Load([]byte("name,description,weight\npacing,momentum,3\n"))
	require.ErrorIs(t, err, ErrMalformedTemplate)
}

// A malformed row must poison the whole template, not just that row.
func TestLoadNeverReturnsPartialSet(t *testing.T) {
	data := writeXLSX(t, [][]any{
		{"Name", "Description", "Weight"},
		{"Pacing", "Momentum", 3},
		{"Dialogue", "Voice", "not-a-number"},
	})

	cs, err := Load(data)
	require.ErrorIs(t, err, ErrMalformedTemplate)
	assert.Nil(t, cs)
}
