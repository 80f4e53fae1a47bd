// Package web embeds the browser chat UI.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var static embed.FS

// FS returns the embedded UI rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err) // embed path is fixed at compile time
	}
	return sub
}
