// Package web embeds the search form and the result page templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// Files is the static asset tree served at "/".
var Files fs.FS = mustSub("static")

// Templates holds the html/template sources.
var Templates fs.FS = mustSub("templates")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
