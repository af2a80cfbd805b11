package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmdFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{
		"config", "forum", "start-page", "pages", "max-per-page",
		"ext", "output-root", "log-level", "no-prompt",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestRootCmdRequiresForumWithoutPrompt(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--no-prompt", "--config", filepath.Join(t.TempDir(), "none.json")})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()

	assert.Error(t, err)
}

func TestRootCmdRunsCrawl(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/forum/viewforum.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><span class="blacklink"><a href="viewtopic.php?t=1&amp;sid=x">Ride Report</a></span></body></html>`)
	})
	mux.HandleFunc("/forum/viewtopic.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><img src="%s/img/bike.gif"></body></html>`, srv.URL)
	})
	mux.HandleFunc("/img/bike.gif", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("GIF89a"))
	})

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	configJSON := fmt.Sprintf(`{
  "config_version": "1.0",
  "base_url": "%[1]s/forum/",
  "forums": [{ "key": "1", "name": "Local", "url": "%[1]s/forum/viewforum.php?f=2" }]
}`, srv.URL)
	require.NoError(t, os.WriteFile(configPath, []byte(configJSON), 0644))

	outRoot := filepath.Join(dir, "out")
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--no-prompt", "--config", configPath, "--forum", "1", "--output-root", outRoot})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())

	saved, err := filepath.Glob(filepath.Join(outRoot, "Point83GIFs_*", "RideReport__bike.gif"))
	require.NoError(t, err)
	assert.Len(t, saved, 1)
	assert.Contains(t, out.String(), "Total GIFs downloaded.....1")
}
