package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFITID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		fitid := NewFITID()
		assert.True(t, strings.HasPrefix(fitid, "gen-"))
		assert.False(t, seen[fitid], "duplicate FITID %s", fitid)
		seen[fitid] = true
	}
}

func TestFormatSourceRef(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	ref := FormatSourceRef("csv", date, "ACME CONSULTING LTDA *1042")
	assert.Equal(t, "csv_20240315_ACMECONSUL", ref)
}

func TestFormatSourceRef_ShortDescription(t *testing.T) {
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ofx_20240102_PIX", FormatSourceRef("ofx", date, "PIX"))
	assert.Equal(t, "ofx_20240102_", FormatSourceRef("ofx", date, "***"))
}
