package service

import (
	"testing"

	"propsight/compression"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCompressService_Compress(t *testing.T) {
	svc := NewCompressService(compression.NewCompressor(compression.DefaultConfig(), zap.NewNop()))
	before := testutil.ToFloat64(CompressionRuns.WithLabelValues("ok"))

	resp := svc.Compress(CompressRequest{
		Text:            "Spacious apartment near the station. Spacious apartment near the station. Rent is 120000 yen per month.",
		IncludeKeywords: true,
	})

	// the rent sentence shares enough characters with the first one to count as a near duplicate
	assert.Equal(t, "Spacious apartment near the station", resp.Text)
	assert.Equal(t, "spacious apartment near station rent yen per month", resp.Keywords)
	assert.Equal(t, 103, resp.Stats.InputRunes)
	assert.False(t, resp.Stats.Fallback)
	assert.Equal(t, before+1, testutil.ToFloat64(CompressionRuns.WithLabelValues("ok")))
}

func TestCompressService_Empty(t *testing.T) {
	svc := NewCompressService(compression.NewCompressor(compression.DefaultConfig(), zap.NewNop()))

	resp := svc.Compress(CompressRequest{Text: ""})
	assert.Empty(t, resp.Text)
	assert.Empty(t, resp.Keywords)
}
