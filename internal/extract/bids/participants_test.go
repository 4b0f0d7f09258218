package bids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

const descriptorJSON = `{"Name": "study", "BIDSVersion": "1.0.2"}`

func TestLoadSubjectRules(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\tage\tsex\nsub-01\t30\tF\nsub-02\t25\tm\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, map[string]any{
		"bids:participant_id":      "sub-01",
		"bids:age(years)":          "30",
		"comment<participant#sex>": "female",
	}, rules[0].Props)
	assert.Equal(t, map[string]any{
		"bids:participant_id":      "sub-02",
		"bids:age(years)":          "25",
		"comment<participant#sex>": "male",
	}, rules[1].Props)

	assert.True(t, rules[0].Pattern.MatchString("sub-01/anat/sub-01_T1w.nii"))
	assert.False(t, rules[0].Pattern.MatchString("sub-02/anat/sub-02_T1w.nii"))
	assert.False(t, rules[0].Pattern.MatchString("derivatives/sub-01/x.nii"),
		"pattern must anchor at the path start")
}

func TestLoadSubjectRulesMissingTable(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
	}, nil)

	rules, err := LoadSubjectRules(ds)

	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestLoadSubjectRulesCommaDialect(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id,age\nsub-01,30\nsub-02,25\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "30", rules[0].Props["bids:age(years)"])
}

func TestLoadSubjectRulesSniffFallbackWarns(t *testing.T) {
	log := &recordingLogger{}
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\nsub-01\n",
	}, log)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)

	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "assuming TSV")

	require.Len(t, rules, 1)
	assert.Equal(t, map[string]any{"bids:participant_id": "sub-01"}, rules[0].Props)
}

func TestLoadSubjectRulesStopsWithoutParticipantIDColumn(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "subject_id\tage\nsub-01\t30\nsub-02\t25\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)

	require.Error(t, err)
	assert.ErrorIs(t, err, datalad.ErrSubjectTableStop)
	assert.Empty(t, rules)
}

// The presence check matches the raw header name, a differently cased
// column does not count.
func TestLoadSubjectRulesParticipantIDCaseSensitive(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "Participant_ID\tage\nsub-01\t30\n",
	}, nil)

	_, err := LoadSubjectRules(ds)

	assert.ErrorIs(t, err, datalad.ErrSubjectTableStop)
}

func TestLoadSubjectRulesKeepsRowsBeforeStop(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		// The second row is too short to carry a participant_id cell
		"participants.tsv": "age\tparticipant_id\n30\tsub-01\n25\nsub-03\t40\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)

	assert.ErrorIs(t, err, datalad.ErrSubjectTableStop)
	require.Len(t, rules, 1)
	assert.Equal(t, "sub-01", rules[0].Props["bids:participant_id"])
}

func TestLoadSubjectRulesGenderColumn(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\tgender\nsub-01\tM\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	assert.Equal(t, "male", rules[0].Props["comment<participant#gender>"])
}

func TestLoadSubjectRulesUnknownSexLabelLowercased(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\tsex\nsub-01\tOther\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	assert.Equal(t, "other", rules[0].Props["comment<participant#sex>"])
}

func TestLoadSubjectRulesColumnNamesLowercased(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\tAGE\tHandedness\nsub-01\t30\tright\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	assert.Equal(t, "30", rules[0].Props["bids:age(years)"])
	assert.Equal(t, "right", rules[0].Props["comment<participant#handedness>"])
}

func TestLoadSubjectRulesSkipsEmptyValues(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\tage\nsub-01\t\nsub-02\t25\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.NotContains(t, rules[0].Props, "bids:age(years)")
	assert.Equal(t, "25", rules[1].Props["bids:age(years)"])
}

func TestLoadSubjectRulesSkipsAllEmptyRow(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\tage\n\t\nsub-02\t25\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)
	require.NoError(t, err)

	// The empty row produces no properties and therefore no rule
	require.Len(t, rules, 1)
	assert.Equal(t, "sub-02", rules[0].Props["bids:participant_id"])
}

func TestLoadSubjectRulesInvalidPatternStops(t *testing.T) {
	ds, _ := newTestDataset(map[string]string{
		"dataset_description.json": descriptorJSON,
		"participants.tsv":         "participant_id\nsub-01\nsub-[\nsub-03\n",
	}, nil)

	rules, err := LoadSubjectRules(ds)

	require.Error(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "sub-01", rules[0].Props["bids:participant_id"])
}
