package id

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01", "1"},
		{"1", "1"},
		{"001", "1"},
		{"35a", "35a"},
		{"035A", "35a"},
		{" 07 ", "7"},
		{"0", "0"},
		{"00", "0"},
		{"10", "10"},
		{"", ""},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestIsRowID(t *testing.T) {
	assert.True(t, IsRowID("01"))
	assert.True(t, IsRowID("35a"))
	assert.True(t, IsRowID("103"))
	assert.False(t, IsRowID("1034"))
	assert.False(t, IsRowID("35ab"))
	assert.False(t, IsRowID("rd"))
	assert.False(t, IsRowID(""))
}

func TestRange(t *testing.T) {
	ids, ok := Range("01", "06")
	require.True(t, ok)
	assert.Equal(t, []string{"01", "02", "03", "04", "05", "06"}, ids)

	ids, ok = Range("05", "05")
	require.True(t, ok)
	assert.Equal(t, []string{"05"}, ids)

	ids, ok = Range("08", "11")
	require.True(t, ok)
	assert.Equal(t, []string{"08", "09", "10", "11"}, ids)

	ids, ok = Range("1", "3")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestRange_Invalid(t *testing.T) {
	_, ok := Range("06", "01")
	assert.False(t, ok, "end before start")

	_, ok = Range("a", "3")
	assert.False(t, ok)
}

func TestFromTag(t *testing.T) {
	tests := []struct {
		tag    string
		want   string
		wantOK bool
	}{
		{"R1", "1", true},
		{"R35a", "35a", true},
		{"R_12", "12", true},
		{"R", "", false},
		{"R_", "", false},
		{"F10L", "", false},
	}
	for _, tt := range tests {
		got, ok := FromTag(tt.tag)
		assert.Equal(t, tt.wantOK, ok, "FromTag(%q)", tt.tag)
		assert.Equal(t, tt.want, got, "FromTag(%q)", tt.tag)
	}
}

func TestLess(t *testing.T) {
	ids := []string{"35a", "10", "2", "35", "01"}
	sort.Slice(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
	assert.Equal(t, []string{"01", "2", "10", "35", "35a"}, ids)
}
