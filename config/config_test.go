package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultThreshold(t *testing.T) {
	t.Setenv("DEFECT_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2, cfg.DefectThreshold)
}

func TestLoad_CustomThreshold(t *testing.T) {
	t.Setenv("DEFECT_THRESHOLD", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.DefectThreshold)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("DEFECT_THRESHOLD", "abc")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_NegativeThreshold(t *testing.T) {
	t.Setenv("DEFECT_THRESHOLD", "-1")

	_, err := Load()
	require.Error(t, err)
}
