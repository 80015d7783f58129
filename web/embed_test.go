package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkupEscapesPlainTextOnce(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	page, err := tmpl.New("content").Parse(`{{markup .}}`)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, page.Execute(&out, `Tom & Jerry's "fun" <b>bold</b><script>alert(1)</script>`))
	html := out.String()
	assert.Contains(t, html, "Tom &amp; Jerry")
	assert.NotContains(t, html, "&amp;amp;")
	assert.Contains(t, html, "<b>bold</b>")
	assert.NotContains(t, html, "<script>")
}

func TestDateFormat(t *testing.T) {
	format := funcs["date"].(func(time.Time) string)
	assert.Equal(t, "Mar 4 2024, 5:06 PM", format(time.Date(2024, 3, 4, 17, 6, 0, 0, time.UTC)))
}
