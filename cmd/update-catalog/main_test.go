package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bess-screening/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCatalogReportsChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"headroom","resources":[{"name":"bsp","path":"bsp.csv"},{"name":"gsp","path":"gsp.csv"}]}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, data.SaveCatalogSnapshot(&data.CatalogSnapshot{
		Resources: []data.Resource{{Name: "gsp"}, {Name: "primary"}},
	}, path))

	var out bytes.Buffer
	cmd := newUpdateCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--url", srv.URL, "--output", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "+ bsp")
	assert.Contains(t, out.String(), "- primary")
	assert.Contains(t, out.String(), "(1 added, 1 removed)")

	snap, err := data.LoadCatalogSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, snap.URL)
	assert.Len(t, snap.Resources, 2)
}
