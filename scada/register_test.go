package scada_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldlink/isa100gw/scada"
)

func TestAddValueTracksMinMaxAverage(t *testing.T) {
	r := scada.NewRegister()
	r.AddValue(10)
	r.AddValue(20)
	r.AddValue(0)

	require.Equal(t, float64(20), r.Maximum)
	require.Equal(t, float64(0), r.Minimum)
	require.InDelta(t, 10.0, r.Average, 1e-9)
	require.Equal(t, uint(3), r.Total)
}

func TestResetRestoresSentinelExtremes(t *testing.T) {
	r := scada.NewRegister()
	r.AddValue(5)
	r.Reset()

	require.Equal(t, uint(0), r.Total)
	require.Equal(t, float64(0), r.Average)
	require.Equal(t, float64(-32766), r.Maximum)
	require.Equal(t, float64(32767), r.Minimum)
}
