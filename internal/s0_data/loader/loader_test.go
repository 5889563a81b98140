package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

const dvfHeader = "date_mutation;valeur_fonciere;type_local;surface_reelle_bati;nombre_pieces_principales;nom_commune;code_departement\n"

func TestReadTransactions(t *testing.T) {
	content := dvfHeader +
		"2021-06-15;185000,00;Appartement;62;3;Lyon;69\n" +
		"2022-01-03;;Maison;110;5;Bron;69\n" +
		"2020-09-30;1 250 000;Maison;210,5;;Paris;75\n"

	rows, err := ReadTransactions(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Lyon", rows[0].Commune)
	assert.Equal(t, "69", rows[0].DepartmentCode)
	require.NotNil(t, rows[0].SaleValue)
	assert.Equal(t, 185000.0, *rows[0].SaleValue)
	require.NotNil(t, rows[0].Rooms)
	assert.Equal(t, 3, *rows[0].Rooms)

	assert.Nil(t, rows[1].SaleValue, "empty cell is missing")

	require.NotNil(t, rows[2].SaleValue)
	assert.Equal(t, 1250000.0, *rows[2].SaleValue)
	assert.Equal(t, 210.5, *rows[2].BuiltArea)
	assert.Nil(t, rows[2].Rooms)
}

func TestReadTransactions_CommaSeparator(t *testing.T) {
	content := strings.ReplaceAll(dvfHeader, ";", ",") + "2021-06-15,185000.5,Appartement,62,3,Lyon,69\n"

	rows, err := ReadTransactions(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 185000.5, *rows[0].SaleValue)
}

func TestReadTransactions_MissingColumn(t *testing.T) {
	content := "date_mutation;valeur_fonciere;type_local;nom_commune;code_departement\n2021-06-15;1;Maison;Lyon;69\n"

	_, err := ReadTransactions(strings.NewReader(content))
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrValidation))
	assert.Contains(t, err.Error(), contracts.ColBuiltArea)
}

func TestReadTransactions_EmptyFile(t *testing.T) {
	_, err := ReadTransactions(strings.NewReader(""))
	assert.True(t, errors.Is(err, contracts.ErrValidation))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"123", ptr(123)},
		{"123,45", ptr(123.45)},
		{"123.45", ptr(123.45)},
		{"1 234,5", ptr(1234.5)},
		{"1,234.5", ptr(1234.5)},
		{"", nil},
		{"abc", nil},
		{"NaN", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseNumber(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("utf-8", func(t *testing.T) {
		out, enc := Decode([]byte("Béziers"))
		assert.Equal(t, EncodingUTF8, enc)
		assert.Equal(t, "Béziers", string(out))
	})

	t.Run("utf-8 with BOM", func(t *testing.T) {
		out, enc := Decode(append([]byte{0xEF, 0xBB, 0xBF}, "nom_commune"...))
		assert.Equal(t, EncodingUTF8, enc)
		assert.Equal(t, "nom_commune", string(out))
	})

	t.Run("latin-1 é", func(t *testing.T) {
		out, enc := Decode([]byte("B\xe9ziers"))
		assert.Equal(t, EncodingWindows1252, enc)
		assert.Equal(t, "Béziers", string(out))
	})

	t.Run("undefined windows-1252 byte", func(t *testing.T) {
		_, enc := Decode([]byte("x\x81y"))
		assert.Equal(t, EncodingLatin1, enc)
	})
}

func TestCSVSource_Latin1File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dvf.csv")
	content := dvfHeader + "2021-06-15;120000;Appartement;40;2;B\xe9ziers;34\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := NewCSVSource(path, nil).LoadTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Béziers", rows[0].Commune)
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "none.csv"), nil).LoadTransactions(context.Background())
	assert.Error(t, err)
}

func TestReadRentReferences(t *testing.T) {
	content := "Département;Loyer médian;Loyer/m² médian\n" +
		"1;620;10,5\n" +
		"69;750;13.2\n" +
		"2A;700;\n" +
		";500;9\n"

	refs, err := ReadRentReferences(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, "1", refs[0].DepartmentCode)
	assert.Equal(t, 620.0, refs[0].MedianRent)
	assert.Equal(t, 10.5, refs[0].MedianRentPerArea)
	assert.Equal(t, 13.2, refs[1].MedianRentPerArea)
}

func TestReadRentReferences_SnakeCaseHeader(t *testing.T) {
	refs, err := ReadRentReferences(strings.NewReader("code_departement;loyer_m2_median\n75;28\n"))
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, 0.0, refs[0].MedianRent)
}

func TestReadRentReferences_MissingColumn(t *testing.T) {
	_, err := ReadRentReferences(strings.NewReader("Département;Loyer médian\n69;750\n"))
	assert.True(t, errors.Is(err, contracts.ErrValidation))
}

func ptr(v float64) *float64 { return &v }
