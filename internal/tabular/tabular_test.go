package tabular

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffTab(t *testing.T) {
	sample := []byte("participant_id\tage\tsex\nsub-01\t30\tF\nsub-02\t25\tM\n")
	d, err := Sniff(sample)
	require.NoError(t, err)
	assert.Equal(t, '\t', d.Delimiter)
	assert.Equal(t, "tab", d.Name())
}

func TestSniffComma(t *testing.T) {
	sample := []byte("participant_id,age,sex\nsub-01,30,F\n")
	d, err := Sniff(sample)
	require.NoError(t, err)
	assert.Equal(t, ',', d.Delimiter)
}

func TestSniffSemicolon(t *testing.T) {
	sample := []byte("participant_id;age\nsub-01;30\nsub-02;25\n")
	d, err := Sniff(sample)
	require.NoError(t, err)
	assert.Equal(t, ';', d.Delimiter)
}

func TestSniffSingleColumn(t *testing.T) {
	sample := []byte("participant_id\nsub-01\nsub-02\n")
	_, err := Sniff(sample)
	assert.ErrorIs(t, err, ErrDialectUnknown)
}

func TestSniffEmpty(t *testing.T) {
	_, err := Sniff(nil)
	assert.ErrorIs(t, err, ErrDialectUnknown)
}

func TestSniffInconsistentDelimiterRejected(t *testing.T) {
	// Commas appear but with varying counts per line; tabs are consistent.
	sample := []byte("id\tnote\nsub-01\ta,b,c\nsub-02\tplain\n")
	d, err := Sniff(sample)
	require.NoError(t, err)
	assert.Equal(t, '\t', d.Delimiter)
}

func TestSniffHigherCountWins(t *testing.T) {
	// One tab and two commas per line, both consistent.
	sample := []byte("a,b,c\td\n1,2,3\t4\n")
	d, err := Sniff(sample)
	require.NoError(t, err)
	assert.Equal(t, ',', d.Delimiter)
}

func TestSniffTruncatedSampleIgnoresLastLine(t *testing.T) {
	// Build a sample of exactly SniffLimit bytes whose final line is cut
	// mid-row and would otherwise break delimiter consistency.
	var buf bytes.Buffer
	buf.WriteString("participant_id\tage\n")
	row := "sub-0001\t33\n"
	for buf.Len()+len(row) <= SniffLimit {
		buf.WriteString(row)
	}
	buf.WriteString(strings.Repeat("x", SniffLimit-buf.Len()))
	require.Equal(t, SniffLimit, buf.Len())

	d, err := Sniff(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, '\t', d.Delimiter)
}

func TestSniffCRLF(t *testing.T) {
	sample := []byte("participant_id\tage\r\nsub-01\t30\r\n")
	d, err := Sniff(sample)
	require.NoError(t, err)
	assert.Equal(t, '\t', d.Delimiter)
}

func TestReaderRows(t *testing.T) {
	content := "participant_id\tage\tsex\nsub-01\t30\tF\nsub-02\t\tM\n"
	r, err := NewReader(strings.NewReader(content), TabDialect)
	require.NoError(t, err)
	assert.Equal(t, []string{"participant_id", "age", "sex"}, r.Header())

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"participant_id": "sub-01", "age": "30", "sex": "F"}, row)

	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "", row["age"])

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderShortRowOmitsTrailingColumns(t *testing.T) {
	content := "participant_id\tage\tsex\nsub-01\t30\n"
	r, err := NewReader(strings.NewReader(content), TabDialect)
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "sub-01", row["participant_id"])
	assert.Equal(t, "30", row["age"])
	_, ok := row["sex"]
	assert.False(t, ok, "missing cell must not appear in row map")
}

func TestReaderExtraCellsDropped(t *testing.T) {
	content := "participant_id\tage\nsub-01\t30\textra\n"
	r, err := NewReader(strings.NewReader(content), TabDialect)
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Len(t, row, 2)
}

func TestReaderCommaDialect(t *testing.T) {
	content := "participant_id,age\nsub-01,30\n"
	r, err := NewReader(strings.NewReader(content), Dialect{Delimiter: ','})
	require.NoError(t, err)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "sub-01", row["participant_id"])
}

func TestReaderEmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), TabDialect)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReaderMalformedQuoting(t *testing.T) {
	content := "participant_id\tnote\nsub-01\t\"unterminated\n"
	r, err := NewReader(strings.NewReader(content), TabDialect)
	require.NoError(t, err)

	_, err = r.Next()
	assert.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}
