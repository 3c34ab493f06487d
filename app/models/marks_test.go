package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarks(t *testing.T) {
	tests := []struct {
		in   string
		want Marks
	}{
		{"0", NewMarks(0)},
		{"100", NewMarks(100)},
		{"085", NewMarks(85)},
		{"", Marks{}},
		{"  12", Marks{}},
		{"-5", Marks{}},
		{"+5", Marks{}},
		{"8.5", Marks{}},
		{"1e2", Marks{}},
		{"abc", Marks{}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseMarks(tc.in), "input %q", tc.in)
	}
}

func TestMarksUnmarshalJSON(t *testing.T) {
	var st Student

	require.NoError(t, json.Unmarshal([]byte(`{"marks": 85}`), &st))
	assert.Equal(t, NewMarks(85), st.Marks)

	require.NoError(t, json.Unmarshal([]byte(`{"marks": "72"}`), &st))
	assert.Equal(t, NewMarks(72), st.Marks)

	require.NoError(t, json.Unmarshal([]byte(`{"marks": null}`), &st))
	assert.False(t, st.Marks.Valid)

	require.NoError(t, json.Unmarshal([]byte(`{"marks": "oops"}`), &st), "garbage marks must not fail the record")
	assert.False(t, st.Marks.Valid)
}

func TestMarksMarshalJSON(t *testing.T) {
	out, err := json.Marshal(NewMarks(85))
	require.NoError(t, err)
	assert.Equal(t, "85", string(out))

	out, err = json.Marshal(Marks{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestMarksString(t *testing.T) {
	assert.Equal(t, "85", NewMarks(85).String())
	assert.Equal(t, "", Marks{}.String())
}
