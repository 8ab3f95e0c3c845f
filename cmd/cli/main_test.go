package main

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func fixtures(t *testing.T) string {
	dir := t.TempDir()
	writeFixture(t, dir, "peaks.csv", `BSP_Name,Date,Peak_MVA
ALPHA,2024-01-01,100
ALPHA,2024-01-02,100
BRAVO,2024-01-01,50
BRAVO,2024-01-02,150
CHARLIE,2024-01-01,10
`)
	writeFixture(t, dir, "thresholds.csv", `BSP_Name,Allowed_MVA
ALPHA,150
BRAVO,180
CHARLIE,
`)
	writeFixture(t, dir, "config.yaml", `simulation:
  sim_days: 365
  trials: 20
  seed: 7
energy_full_mwh: 100
candidates:
  - {size_mw: 30, export_mva_with_margin: 40}
  - {size_mw: 50, export_mva_with_margin: 60}
inputs:
  peaks: peaks.csv
  thresholds: thresholds.csv
output:
  results: out/results.csv
  exceptions: out/exceptions.csv
logging:
  level: error
`)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScreenWritesResults(t *testing.T) {
	dir := fixtures(t)
	resultsPath := filepath.Join(dir, "results.csv")
	exceptionsPath := filepath.Join(dir, "exceptions.csv")

	out, err := execute(t, "screen", "--config", filepath.Join(dir, "config.yaml"),
		"--out", resultsPath, "--exceptions-out", exceptionsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 rows")
	assert.Contains(t, out, "skipped CHARLIE")

	f, err := os.Open(resultsPath)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "BSP_Name", recs[0][0])
	assert.Equal(t, "ALPHA", recs[1][0])
	assert.Equal(t, "BRAVO", recs[4][0])

	raw, err := os.ReadFile(exceptionsPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CHARLIE")
}

func TestScreenBadRowOnlyAffectsItsBSP(t *testing.T) {
	dir := fixtures(t)
	writeFixture(t, dir, "peaks.csv", `BSP_Name,Date,Peak_MVA
ALPHA,2024-01-01,100
ALPHA,2024-01-02,100
BRAVO,2024-01-01,n/a
BRAVO,2024-01-02,150
`)
	resultsPath := filepath.Join(dir, "results.csv")
	exceptionsPath := filepath.Join(dir, "exceptions.csv")

	out, err := execute(t, "screen", "--config", filepath.Join(dir, "config.yaml"),
		"--out", resultsPath, "--exceptions-out", exceptionsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 rows")
	assert.Contains(t, out, "failed  BRAVO")

	f, err := os.Open(resultsPath)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "ALPHA", recs[1][0])
	assert.Equal(t, "ALPHA", recs[2][0])

	ef, err := os.Open(exceptionsPath)
	require.NoError(t, err)
	defer ef.Close()
	exc, err := csv.NewReader(ef).ReadAll()
	require.NoError(t, err)
	require.Len(t, exc, 3)
	for i, size := range []string{"30.000000", "50.000000"} {
		assert.Equal(t, []string{"BRAVO", size, "failed"}, exc[i+1][:3])
		assert.True(t, strings.HasPrefix(exc[i+1][3], "line 4: Peak_MVA: "), exc[i+1][3])
	}

	_, err = execute(t, "estimate", "--peaks", filepath.Join(dir, "peaks.csv"),
		"--bsp", "BRAVO", "--export", "1", "--size", "1", "--allowed", "500")
	assert.ErrorContains(t, err, "line 4")
}

func TestScreenSeedIsReproducible(t *testing.T) {
	dir := fixtures(t)
	run := func(name string) string {
		p := filepath.Join(dir, name)
		_, err := execute(t, "screen", "--config", filepath.Join(dir, "config.yaml"), "--out", p, "--seed", "42", "--workers", "3")
		require.NoError(t, err)
		raw, err := os.ReadFile(p)
		require.NoError(t, err)
		return string(raw)
	}
	assert.Equal(t, run("a.csv"), run("b.csv"))
}

func TestScreenRequiresConfig(t *testing.T) {
	_, err := execute(t, "screen")
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	dir := fixtures(t)
	out, err := execute(t, "estimate", "--peaks", filepath.Join(dir, "peaks.csv"),
		"--thresholds", filepath.Join(dir, "thresholds.csv"),
		"--bsp", "ALPHA", "--export", "60", "--size", "50", "--trials", "2", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "P(overload)=1.0000")
	assert.Contains(t, out, "RAG=RED")

	_, err = execute(t, "estimate", "--peaks", filepath.Join(dir, "peaks.csv"),
		"--thresholds", filepath.Join(dir, "thresholds.csv"), "--bsp", "CHARLIE", "--export", "1")
	assert.Error(t, err)

	_, err = execute(t, "estimate", "--peaks", filepath.Join(dir, "peaks.csv"), "--bsp", "NOPE", "--export", "1", "--allowed", "5")
	assert.Error(t, err)
}

func TestHeadroom(t *testing.T) {
	dir := fixtures(t)
	out, err := execute(t, "headroom", "--peaks", filepath.Join(dir, "peaks.csv"),
		"--thresholds", filepath.Join(dir, "thresholds.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "ALPHA")
}

func TestSites(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "gsp.csv", `GSP_Name,DNO,Fault_Level_Status,Fault_Level_Headroom_kA,Latitude,Longitude
Iron Acton,NGED,Restricted,1.5,51.56,-2.48
Norwich Main,UKPN,No Restriction,8,52.6,1.3
`)
	out, err := execute(t, "sites", "--file", p, "--dno", "UKPN")
	require.NoError(t, err)
	assert.Contains(t, out, "Norwich Main")
	assert.NotContains(t, out, "Iron Acton")
	assert.Contains(t, out, "1 of 2 sites")
}

func TestCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"headroom","title":"Headroom","resources":[{"name":"bsp","path":"bsp.csv"},{"name":"gsp","path":"gsp.csv"}]}`))
	}))
	defer srv.Close()

	out, err := execute(t, "catalog", "--url", srv.URL, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Headroom (2 resources)")
	assert.Contains(t, out, "bsp.csv")
	assert.NotContains(t, out, "gsp.csv")
}
