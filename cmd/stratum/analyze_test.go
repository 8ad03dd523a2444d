package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFromFlags(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "beam.pdf")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", "--span", "6", "--i", "1e-4", "--load", "P:10@3", "--points", "3", "--pdf", pdf})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "simply_supported")
	assert.Contains(t, out.String(), "5.000 kN")
	assert.Contains(t, out.String(), "-2.250 mm")

	raw, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAnalyzeFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beam.yaml")
	doc := `support: cantilever
span_m: 4
i_m4: 0.0001
loads:
  - kind: point
    magnitude: 10
    position: 4
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", "--file", path, "--points", "0", "--pdf", ""})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "-40.000 kN*m")
}

func TestAnalyzeRejectsBadLoad(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"analyze", "--file", "", "--span", "6", "--i", "1e-4", "--load", "X:1@2"})
	assert.Error(t, rootCmd.Execute())
}
