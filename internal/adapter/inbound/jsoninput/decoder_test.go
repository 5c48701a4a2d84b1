package jsoninput

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

func testCatalog(t *testing.T) *criteria.Catalog {
	t.Helper()
	c, err := criteria.NewCatalog("test-policy", "", []criteria.Definition{
		{Name: "hypoxia", Label: "Hypoxia"},
		{Name: "hypotension", Label: "Hypotension"},
	})
	require.NoError(t, err)
	return c
}

func requireKind(t *testing.T, err error, want criteria.ErrorKind) *criteria.ValidationError {
	t.Helper()
	require.Error(t, err)
	kind, ok := criteria.KindOf(err)
	require.True(t, ok, "expected ValidationError, got %T: %v", err, err)
	require.Equal(t, want, kind, "error: %v", err)
	ve := &criteria.ValidationError{}
	require.ErrorAs(t, err, &ve)
	return ve
}

func TestDecode_TriState(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	req, err := d.Decode([]byte(`{"hypoxia": true, "hypotension": null}`))
	require.NoError(t, err)

	assert.Equal(t, criteria.Met, req.Set.Get("hypoxia"))
	assert.Equal(t, criteria.Absent, req.Set.Get("hypotension"))
	assert.Empty(t, req.Ignored)
}

func TestDecode_FalseIsNotMet(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	req, err := d.Decode([]byte(`{"hypoxia": false}`))
	require.NoError(t, err)
	assert.Equal(t, criteria.NotMet, req.Set.Get("hypoxia"))
	assert.Equal(t, criteria.Absent, req.Set.Get("hypotension"))
}

func TestDecode_EmptyObject(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	req, err := d.Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, req.Set)
}

func TestDecode_Metadata(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	req, err := d.Decode([]byte(`{"patient_id": "P-001", "encounter_id": null, "hypoxia": true}`))
	require.NoError(t, err)
	assert.Equal(t, "P-001", req.PatientID)
	assert.Equal(t, "", req.EncounterID)
	assert.NotContains(t, req.Set, criteria.KeyPatientID)
}

func TestDecode_MetadataWrongType(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	_, err := d.Decode([]byte(`{"patient_id": 42}`))
	ve := requireKind(t, err, criteria.KindInvalidValueType)
	assert.Equal(t, "patient_id", ve.Field)
}

func TestDecode_InvalidValueType(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	tests := []struct {
		doc      string
		wantType string
	}{
		{`{"hypoxia": "yes"}`, "string"},
		{`{"hypoxia": 1}`, "number"},
		{`{"hypoxia": [true]}`, "array"},
		{`{"hypoxia": {"value": true}}`, "object"},
	}
	for _, tt := range tests {
		_, err := d.Decode([]byte(tt.doc))
		ve := requireKind(t, err, criteria.KindInvalidValueType)
		assert.Equal(t, "hypoxia", ve.Field)
		assert.Contains(t, ve.Message, tt.wantType)
	}
}

func TestDecode_UnknownCriterion(t *testing.T) {
	t.Parallel()

	t.Run("reject", func(t *testing.T) {
		t.Parallel()
		d := NewDecoder(testCatalog(t), UnknownReject)
		_, err := d.Decode([]byte(`{"hypoxia": true, "fever": true}`))
		ve := requireKind(t, err, criteria.KindUnknownCriterion)
		assert.Equal(t, "fever", ve.Field)
	})

	t.Run("default mode rejects", func(t *testing.T) {
		t.Parallel()
		d := NewDecoder(testCatalog(t), "")
		_, err := d.Decode([]byte(`{"fever": false}`))
		requireKind(t, err, criteria.KindUnknownCriterion)
	})

	t.Run("ignore", func(t *testing.T) {
		t.Parallel()
		d := NewDecoder(testCatalog(t), UnknownIgnore)
		req, err := d.Decode([]byte(`{"zeta": 1, "hypoxia": true, "fever": "x"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"fever", "zeta"}, req.Ignored)
		assert.Equal(t, criteria.Met, req.Set.Get("hypoxia"))
		assert.Len(t, req.Set, 1)
	})
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	for _, doc := range []string{
		``,
		`   `,
		`{"hypoxia": tru}`,
		`{"hypoxia": true`,
		`[]`,
		`null`,
		`"hypoxia"`,
		`true`,
	} {
		_, err := d.Decode([]byte(doc))
		requireKind(t, err, criteria.KindMalformedJSON)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hypotension": true}`), 0o600))

	d := NewDecoder(testCatalog(t), UnknownReject)
	req, err := d.DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, criteria.Met, req.Set.Get("hypotension"))
}

func TestDecodeFile_NotFound(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := d.DecodeFile(path)
	ve := requireKind(t, err, criteria.KindFileNotFound)
	assert.Equal(t, path, ve.Field)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeFile_Directory(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	_, err := d.DecodeFile(t.TempDir())
	requireKind(t, err, criteria.KindFileNotFound)
}

func TestDecodeReader_TooLarge(t *testing.T) {
	t.Parallel()

	d := NewDecoder(testCatalog(t), UnknownReject)
	big := `{"hypoxia": true, "pad": "` + strings.Repeat("x", MaxInputBytes) + `"}`
	_, err := d.DecodeReader(strings.NewReader(big))
	requireKind(t, err, criteria.KindMalformedJSON)
}
