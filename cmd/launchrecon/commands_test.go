package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/launch-data-etl/internal/observability"
)

const apiCSV = `mission_name,launch_date,rocket_name,payload_mass,orbit,launch_site,landing_success,reused
FalconSat,2006-03-24 22:30:00+00:00,Falcon 1,20.0,LEO,Kwajalein Atoll,,False
CRS-1,2012-10-08 00:35:00+00:00,Falcon 9,400.0,ISS,CCSFS SLC 40,,False
CRS-5,2015-01-10 09:47:00+00:00,Falcon 9,2395.0,ISS,CCSFS SLC 40,False,False
Orbcomm-OG2,2015-12-22 01:29:00+00:00,Falcon 9,2034.0,LEO,CCSFS SLC 40,True,False
`

const wikiCSV = `date,booster_version,launch_site,payload,orbit,customer,launch_outcome,landing_type,landing_outcome
8 October 201200:35,F9 v1.0B0006,CCAFS,SpaceX CRS-1,LEO (ISS),NASA (CRS),Success,No attempt,
10 January 201509:47[12],F9 v1.1 B1012,CCAFS,SpaceX CRS-5,LEO (ISS),NASA (CRS),Success,Ocean,Failure
22 December 201501:29,F9 FT B1019,CCAFS,Orbcomm OG2,,Orbcomm,Success,Ground-pad,Success
`

func setupInputs(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.csv"), []byte(apiCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wiki.csv"), []byte(wikiCSV), 0o600))

	t.Setenv("API_CSV", filepath.Join(dir, "api.csv"))
	t.Setenv("WIKI_CSV", filepath.Join(dir, "wiki.csv"))
	t.Setenv("OUTPUT_CSV", filepath.Join(dir, "out", "enriched.csv"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("KAFKA_ENABLED", "false")

	orig := newMetrics
	newMetrics = observability.NewMetricsForTesting
	t.Cleanup(func() { newMetrics = orig })
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReconcileValidateReport(t *testing.T) {
	dir := setupInputs(t)

	out, err := execute(t, "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "Reconciliation run")
	assert.FileExists(t, filepath.Join(dir, "out", "enriched.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "enriched.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4, "header plus three matched launches")

	out, err = execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
	assert.NotContains(t, out, "FAIL")

	out, err = execute(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "3 reconciled launches, 2 with a known landing outcome, 50.0% landed")
	assert.Contains(t, out, "Landing success by orbit")
	assert.Contains(t, out, "Landing success by launch site")
	assert.Contains(t, out, "F9 FT B1019")
}

func TestReconcileFlagsOverrideEnv(t *testing.T) {
	dir := setupInputs(t)
	custom := filepath.Join(dir, "custom.csv")

	_, err := execute(t, "reconcile", "--out", custom)
	require.NoError(t, err)
	assert.FileExists(t, custom)
	assert.NoFileExists(t, filepath.Join(dir, "out", "enriched.csv"))
}

func TestReconcileSchemaMismatch(t *testing.T) {
	dir := setupInputs(t)
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("date,booster\n1 June 2020,B1\n"), 0o600))

	_, err := execute(t, "reconcile", "--wiki", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema mismatch")
}

func TestValidateDetectsTampering(t *testing.T) {
	dir := setupInputs(t)
	_, err := execute(t, "reconcile")
	require.NoError(t, err)

	path := filepath.Join(dir, "out", "enriched.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), ",2015,", ",2016,", 1)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o600))

	out, err := execute(t, "validate")
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "Year and landing success")
	assert.Contains(t, out, "year 2016")
}

func TestInvalidConfig(t *testing.T) {
	setupInputs(t)
	t.Setenv("MATCH_TOLERANCE", "-1h")

	_, err := execute(t, "reconcile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATCH_TOLERANCE")
}
