package host

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, d *Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	return buf.String()
}

func TestDefaultHasRoot(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	_, ok := d.Lookup(RootElementID)
	assert.True(t, ok)

	out := render(t, d)
	assert.Contains(t, out, `<div id="root"></div>`)
	assert.Contains(t, out, "telegram-web-app.js")
	assert.Contains(t, out, "tg.ready();")
}

func TestLookupMissing(t *testing.T) {
	d, err := Parse(strings.NewReader(`<html><body><div id="app"></div></body></html>`))
	require.NoError(t, err)

	target, ok := d.Lookup(RootElementID)
	assert.False(t, ok)
	assert.Nil(t, target)
}

func TestMountReplacesChildren(t *testing.T) {
	d, err := Parse(strings.NewReader(`<html><body><div id="root"><p>Loading…</p></div><p id="after">x</p></body></html>`))
	require.NoError(t, err)

	target, ok := d.Lookup(RootElementID)
	require.True(t, ok)
	require.NoError(t, target.Mount(strings.NewReader(`<h1>PostAIBot</h1><p>Привет</p>`)))

	out := render(t, d)
	assert.Contains(t, out, `<div id="root"><h1>PostAIBot</h1><p>Привет</p></div>`)
	assert.NotContains(t, out, "Loading")
	assert.Contains(t, out, `<p id="after">x</p>`)
}

func TestMountOnlyOnce(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	first, _ := d.Lookup(RootElementID)
	require.NoError(t, first.Mount(strings.NewReader("<p>one</p>")))

	second, _ := d.Lookup(RootElementID)
	assert.ErrorIs(t, second.Mount(strings.NewReader("<p>two</p>")), ErrAlreadyMounted)
	assert.NotContains(t, render(t, d), "two")
}

func TestNestedLookup(t *testing.T) {
	d, err := Parse(strings.NewReader(`<html><body><main><section><span id="root"></span></section></main></body></html>`))
	require.NoError(t, err)

	_, ok := d.Lookup("root")
	assert.True(t, ok)
}
