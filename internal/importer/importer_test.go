package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

func buildXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, v := range rowData {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("Leads.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = DetectFormat("leads.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = DetectFormat("leads.xls")
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	data := buildXLSX(t, [][]string{
		{"First Name", "Last Name", "Company"},
		{"Jane", "Doe", "Acme"},
	})

	rows, err := ReadFile("upload.xlsx", data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Jane", "Doe", "Acme"}, rows[1])

	_, err = ReadXLSX([]byte("not a zip"))
	assert.Error(t, err)
}

func TestReadCSV_StripsBOM(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("\ufefffirst_name,email\nJane,jane@acme.com\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"first_name", "email"}, {"Jane", "jane@acme.com"}}, rows)
}

func TestReadCSV_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := enc.String("lastname,website\nDoe,acme.com\n")
	require.NoError(t, err)

	rows, err := ReadCSV(strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"lastname", "website"}, {"Doe", "acme.com"}}, rows)
}

func TestMapRows(t *testing.T) {
	rows := [][]string{
		{" First Name ", "LASTNAME", "Company_Name", "Website", "Email", "Notes", "id"},
		{"Jane", "Doe", "Acme", "https://www.Acme.com/about", "jane@acme.com", "vip", "c1"},
		{"", "", "", "", "", "ignored", ""},
		{"", "", "Globex", "", "", "", ""},
		{"Solo"},
	}

	got := MapRows(rows)
	assert.Equal(t, []model.EnrichParams{
		{ID: "c1", FirstName: "Jane", LastName: "Doe", OrganizationName: "Acme", Email: "jane@acme.com", Domain: "acme.com"},
		{OrganizationName: "Globex"},
		{FirstName: "Solo"},
	}, got)

	assert.Nil(t, MapRows(rows[:1]))
}

func TestBuildReport(t *testing.T) {
	items := []model.ProviderBatchItem{
		{
			Original: model.EnrichParams{FirstName: "Jane"},
			Enriched: &model.Person{
				ID: "p1", FirstName: "Jane", LastName: "Doe", Email: "jane@acme.com",
				City: "Austin", State: "TX",
				PhoneNumbers: []model.PhoneNumber{{SanitizedNumber: "+15550001111"}},
				Organization: &model.Organization{Name: "Acme"},
			},
		},
		{Original: model.EnrichParams{FirstName: "Nobody"}, Error: "No matching person found"},
		{Original: model.EnrichParams{FirstName: "Ghost"}},
	}

	rep := BuildReport(items)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, Summary{Total: 3, Successful: 1, Failed: 2, SuccessRate: 33}, rep.Summary)

	require.Len(t, rep.Results, 3)
	first := rep.Results[0]
	assert.Equal(t, "enriched_0", first.ID)
	require.NotNil(t, first.Enriched)
	assert.Equal(t, "Jane Doe", first.Enriched.Name)
	assert.Equal(t, "+15550001111", first.Enriched.Phone)
	assert.Equal(t, "Acme", first.Enriched.Company)
	assert.Equal(t, "Austin, TX", first.Enriched.Location)
	assert.Nil(t, first.Error)

	assert.Equal(t, "failed_1", rep.Results[1].ID)
	require.NotNil(t, rep.Results[2].Error)
	assert.Equal(t, "No matching person found", *rep.Results[2].Error)

	assert.Equal(t, 0, BuildReport(nil).Summary.SuccessRate)
}
