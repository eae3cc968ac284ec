package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"-env", filepath.Join(t.TempDir(), "none.env")}, args...)
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Stdin(t *testing.T) {
	code, out, _ := runCmd(t, `<a href="/x" onclick="y()">x</a><b>y</b>`)
	assert.Equal(t, 0, code)
	assert.Equal(t, `<a href="/x" >x</a>&lt;b&gt;y&lt;/b&gt;`, out)
}

func TestRun_PermitFlags(t *testing.T) {
	code, out, _ := runCmd(t, `<a href="/x" target="_blank">x</a><b class="c">y</b>`,
		"-no-default", "-permit", "a=target", "-permit", "b")
	assert.Equal(t, 0, code)
	assert.Equal(t, `<a target="_blank" >x</a><b >y</b>`, out)
}

func TestRun_WhitelistFileAndFiles(t *testing.T) {
	dir := t.TempDir()
	wl := filepath.Join(dir, "wl.yaml")
	require.NoError(t, os.WriteFile(wl, []byte("tags:\n  em: []\n"), 0o600))
	in1 := filepath.Join(dir, "one.html")
	in2 := filepath.Join(dir, "two.html")
	require.NoError(t, os.WriteFile(in1, []byte(`<em>1</em>`), 0o600))
	require.NoError(t, os.WriteFile(in2, []byte(`<a href="/">2</a>`), 0o600))

	code, out, _ := runCmd(t, "", "-whitelist", wl, in1, in2)
	assert.Equal(t, 0, code)
	assert.Equal(t, `<em >1</em><a href="/" >2</a>`, out)
}

func TestRun_SchemeFilterFromEnv(t *testing.T) {
	t.Setenv("XSSFILTER_ALLOWED_SCHEMES", "https")
	code, out, _ := runCmd(t, `<a href="javascript:alert(1)" title="t">x</a>`)
	assert.Equal(t, 0, code)
	assert.Equal(t, `<a title="t" >x</a>`, out)
}

func TestRun_Errors(t *testing.T) {
	code, _, stderr := runCmd(t, "", "-whitelist", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "building whitelist")

	code, _, stderr = runCmd(t, "", filepath.Join(t.TempDir(), "missing.html"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "sanitizing input")

	code, _, _ = runCmd(t, "", "-permit", "=href")
	assert.Equal(t, 2, code)

	t.Setenv("XSSFILTER_LOG_FORMAT", "xml")
	code, _, stderr = runCmd(t, "")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid log format")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"href", "title"}, splitList(" href, ,title,"))
	assert.Nil(t, splitList(""))
}
