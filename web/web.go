// Package web embeds the server-rendered view templates.
package web

import "embed"

// Templates holds every page and layout template shipped with the binary.
//
//go:embed templates/*.gohtml
var Templates embed.FS
