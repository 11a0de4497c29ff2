package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sp: sp\nmem: mem\n"), 0o644))

	cfg, err := loadRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sp", cfg.SP)
	assert.Equal(t, "mem", cfg.Mem)
	assert.True(t, cfg.SignednessHack)
	assert.Equal(t, uint32(64), cfg.SPWidth)
}

func TestLoadRunConfigRequiresSPAndMem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nmeets: 4\n"), 0o644))

	_, err := loadRunConfig(path)
	assert.Error(t, err)
}

func TestRunConfigToDriverConfig(t *testing.T) {
	cfg := runConfig{
		SP:      "sp",
		SPWidth: 32,
		Mem:     "mem",
		NMeets:  5,
		InitialMem: []initialMemRow{
			{Address: 0, Value: 9},
		},
	}
	dc := cfg.toDriverConfig()
	assert.Equal(t, "sp", dc.SP.Name)
	assert.Equal(t, uint32(32), dc.SP.Width)
	assert.Equal(t, "mem", dc.Mem.Name)
	assert.Equal(t, 5, dc.NMeets)
	require.Len(t, dc.InitialMem, 1)
	assert.Equal(t, byte(9), dc.InitialMem[0].Value)
}
