// SPDX-License-Identifier: GPL-3.0-or-later

package checks

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
)

func TestReadHttpCheckMinimal(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"url": specsheet.NewString("https://example.com/"),
	})
	c, err := ReadHttpCheck(v)
	require.NoError(t, err)
	assert.Equal(t, "http", c.Type())
	assert.Equal(t, "HTTP request to 'https://example.com/' succeeds", c.String())
}

func TestReadHttpCheckComposesClauses(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"url":          specsheet.NewString("https://example.com/"),
		"status":       specsheet.NewInt(200),
		"content_type": specsheet.NewString("HTML"),
		"redirect_to":  specsheet.NewString("https://example.com/new"),
	})
	c, err := ReadHttpCheck(v)
	require.NoError(t, err)
	assert.Equal(t,
		"HTTP request to 'https://example.com/' has status '200', has content type 'HTML', redirects to 'https://example.com/new'",
		c.String())
}

func TestReadHttpCheckRejectsEmptyURL(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"url": specsheet.NewString(""),
	})
	_, err := ReadHttpCheck(v)
	assert.Error(t, err)
}

func TestReadHttpCheckRejectsUnknownContentTypeClass(t *testing.T) {
	v := specsheet.NewTable(map[string]specsheet.Value{
		"url":          specsheet.NewString("https://example.com/"),
		"content_type": specsheet.NewString("NOTAREALCLASS"),
	})
	_, err := ReadHttpCheck(v)
	assert.Error(t, err)
}

func TestContentTypeCheckMatchesLiteralMime(t *testing.T) {
	c := contentTypeCheck{mime: "application/custom"}
	ok, err := c.matches("application/custom")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.matches("application/other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContentTypeCheckMatchesClassWithParameters(t *testing.T) {
	c := contentTypeCheck{class: "HTML"}
	ok, err := c.matches("text/html; charset=utf-8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContentTypeCheckMatchesSuffixedClass(t *testing.T) {
	c := contentTypeCheck{class: "ATOM"}
	ok, err := c.matches("application/atom+xml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContentTypeCheckMatchesAliasedClass(t *testing.T) {
	c := contentTypeCheck{class: "JS"}

	ok, err := c.matches("text/javascript")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.matches("application/javascript")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.matches("text/plain")
	require.NoError(t, err)
	assert.False(t, ok)
}

func redirectResponse(status int, location string) adapters.HTTPResponse {
	h := make(http.Header)
	if location != "" {
		h.Set("Location", location)
	}
	return adapters.HTTPResponse{Status: status, Headers: h}
}

func TestHttpCheckRedirectResultInclusiveRange(t *testing.T) {
	c := &HttpCheck{url: "https://example.com/", redirectTo: "https://example.com/new"}

	r := c.redirectResult(redirectResponse(300, "https://example.com/new"))
	assert.True(t, r.IsPassed())

	r = c.redirectResult(redirectResponse(303, "https://example.com/new"))
	assert.True(t, r.IsPassed())

	r = c.redirectResult(redirectResponse(304, "https://example.com/new"))
	assert.False(t, r.IsPassed())

	r = c.redirectResult(redirectResponse(299, "https://example.com/new"))
	assert.False(t, r.IsPassed())
}

func TestHttpCheckRedirectResultMissingLocation(t *testing.T) {
	c := &HttpCheck{url: "https://example.com/", redirectTo: "https://example.com/new"}
	r := c.redirectResult(redirectResponse(301, ""))
	assert.False(t, r.IsPassed())
}
