package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gubarz/dupword/internal/discover"
	"github.com/gubarz/dupword/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []Result {
	return []Result{
		{File: discover.File{Path: "README.md", Dialect: discover.Plain}},
		{
			File: discover.File{Path: "doc/guide.pod6", Dialect: discover.Marked},
			Findings: []scan.Finding{
				{Word: "the", Line: 3},
				{Word: "Word", Line: 10},
			},
		},
	}
}

func TestResultMessage(t *testing.T) {
	r := sampleResults()[1]
	assert.False(t, r.Passed())
	assert.Equal(t, "«the» on line 3\n«Word» on line 10", r.Message())
	assert.Empty(t, sampleResults()[0].Message())
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())
	assert.Equal(t, Summary{Files: 2, Failed: 1, Findings: 2}, s)
	assert.False(t, s.OK())
	assert.True(t, Summarize(nil).OK())
}

func TestTAP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TAP{}.Report(&buf, sampleResults()))

	want := `1..2
ok 1 - README.md
not ok 2 - doc/guide.pod6
# «the» on line 3
# «Word» on line 10
`
	assert.Equal(t, want, buf.String())
}

func TestTAPEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TAP{}.Report(&buf, nil))
	assert.Equal(t, "1..0\n", buf.String())
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewText(false).Report(&buf, sampleResults()))

	want := `PASS README.md
FAIL doc/guide.pod6
        3 «the»
       10 «Word»

2 files, 1 failed, 2 repeated words
`
	assert.Equal(t, want, buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Report(&buf, sampleResults()))

	var got jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Files, 2)
	assert.True(t, got.Files[0].Passed)
	assert.Equal(t, []scan.Finding{}, got.Files[0].Findings)
	assert.Equal(t, "marked", got.Files[1].Dialect)
	assert.Equal(t, Summary{Files: 2, Failed: 1, Findings: 2}, got.Summary)
}

func TestNew(t *testing.T) {
	for _, format := range []string{"tap", "text", "json"} {
		r, err := New(format, false)
		require.NoError(t, err)
		assert.NotNil(t, r)
	}

	_, err := New("xml", false)
	require.ErrorIs(t, err, ErrUnknownFormat)
}
