package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/types"
)

const computrabajoCSV = `titulo,empresa,ubicacion,enlace,descripcion,salario,experiencia,web-scraper-start-url
Analista de Datos,Banco Uno,Santiago,https://cl.computrabajo.com/1,"Se requiere SQL y Power BI","$1.200.000 a $1.500.000",2 años,https://cl.computrabajo.com/start
Business Analyst,,,,"Manejo de SAP",,,https://cl.computrabajo.com/start
,Empresa Sin Titulo,Santiago,,"Python",,,
Analista de Datos,Banco Dos,Valparaíso,,"Se requiere SQL y Power BI",,,
`

func TestReadCSV_ColumnMapping(t *testing.T) {
	listings, bad, err := ReadCSV(strings.NewReader(computrabajoCSV), SourceComputrabajo)
	require.NoError(t, err)
	assert.Equal(t, 0, bad)
	require.Len(t, listings, 4)

	first := listings[0]
	assert.Equal(t, "Analista de Datos", first.Title)
	assert.Equal(t, "Banco Uno", first.Company)
	assert.Equal(t, "Santiago", first.Location)
	assert.Equal(t, "https://cl.computrabajo.com/1", first.URL, "listing link wins over the start url")
	assert.Equal(t, "Se requiere SQL y Power BI", first.Description)
	assert.Equal(t, "2 años", first.ExperienceText)
	assert.Equal(t, 1500000.0, first.SalaryNumeric)
	assert.Equal(t, SourceComputrabajo, first.Source)

	second := listings[1]
	assert.Equal(t, DefaultCompany, second.Company)
	assert.Equal(t, DefaultLocation, second.Location)
	assert.Equal(t, "https://cl.computrabajo.com/start", second.URL)
	assert.Equal(t, 0.0, second.SalaryNumeric)
}

func TestReadCSV_EnglishHeadersAndBOM(t *testing.T) {
	data := "\ufeffTitle,Company,Description,Source\nData Engineer,Acme,Python and AWS,LinkedIn\n"

	listings, _, err := ReadCSV(strings.NewReader(data), SourceIndeed)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Data Engineer", listings[0].Title)
	assert.Equal(t, "LinkedIn", listings[0].Source, "explicit source column wins")
}

func TestReadCSV_Empty(t *testing.T) {
	listings, bad, err := ReadCSV(strings.NewReader(""), SourceIndeed)
	require.NoError(t, err)
	assert.Equal(t, 0, bad)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestReadJSON(t *testing.T) {
	data := `[
		{"title": "Analista BI", "description": "Tableau", "salary_numeric": 900000},
		{"titulo": "Jefe de Proyectos", "descripcion": "PMP y Scrum", "salario": "$2.000.000"}
	]`

	listings, err := ReadJSON(strings.NewReader(data), SourceIndeed)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, 900000.0, listings[0].SalaryNumeric)
	assert.Equal(t, "Jefe de Proyectos", listings[1].Title)
	assert.Equal(t, 2000000.0, listings[1].SalaryNumeric)
	assert.Equal(t, SourceIndeed, listings[1].Source)
}

func TestReadJSON_Invalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"title": "not an array"}`), SourceIndeed)
	assert.Error(t, err)
}

func TestFinalize(t *testing.T) {
	listings := []types.Listing{
		{Title: "A", Description: "x"},
		{Title: "", Description: "y"},
		{Title: "A", Description: "x", Company: "other"},
		{Title: "A", Description: "z"},
		{Title: "   ", Description: "w"},
	}

	out, dropped := Finalize(listings)

	require.Len(t, out, 2)
	assert.Equal(t, 3, dropped)
	assert.Empty(t, out[0].Company, "first occurrence is kept")
	assert.Equal(t, "z", out[1].Description)
}

func TestSourceFromPath(t *testing.T) {
	assert.Equal(t, SourceComputrabajo, SourceFromPath("data/raw/web_scraper/compu1.csv"))
	assert.Equal(t, SourceComputrabajo, SourceFromPath("COMPU2.csv"))
	assert.Equal(t, SourceIndeed, SourceFromPath("data/raw/web_scraper/indeed1.csv"))
	assert.Equal(t, SourceIndeed, SourceFromPath("ofertas.json"))
}

func TestLoader_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compu1.csv"), []byte(computrabajoCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "indeed1.json"),
		[]byte(`[{"title": "Data Scientist", "description": "Python y machine learning"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	listings, meta, err := NewLoader(nil).Load(dir)
	require.NoError(t, err)

	// 4 CSV rows + 1 JSON: one empty title and one duplicate are dropped
	require.Len(t, listings, 3)
	assert.Equal(t, "Data Scientist", listings[2].Title)
	assert.Equal(t, SourceIndeed, listings[2].Source)

	assert.Equal(t, 3, meta.Listings)
	assert.Equal(t, 2, meta.Dropped)
	assert.Len(t, meta.Files, 2)
	assert.Equal(t, 2, meta.BySource[SourceComputrabajo])
	assert.Len(t, meta.Hash, 64)
}

func TestLoader_HashIsDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compu.csv")
	require.NoError(t, os.WriteFile(path, []byte(computrabajoCSV), 0644))

	_, first, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	_, second, err := NewLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
}

func TestLoader_MissingFile(t *testing.T) {
	_, _, err := NewLoader(nil).Load("/nonexistent/listings.csv")
	require.Error(t, err)

	var missing *types.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "listings", missing.Resource)
}

func TestLoader_NoPaths(t *testing.T) {
	_, _, err := NewLoader(nil).Load()
	var missing *types.MissingInputError
	assert.True(t, errors.As(err, &missing))
}

func TestLoader_SkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{broken"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("titulo,descripcion\nAnalista,SQL\n"), 0644))

	listings, meta, err := NewLoader(nil).Load(dir)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Len(t, meta.Files, 2)
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	meta := NewMetadata()
	listings := []types.Listing{{Title: "A", Description: "x", Source: SourceIndeed}}
	meta.Finish(listings, 0)

	require.NoError(t, WriteOutput(dir, listings, meta))

	assert.FileExists(t, filepath.Join(dir, "listings.json"))
	assert.FileExists(t, filepath.Join(dir, "listings.meta.json"))
}
