// Package assets embeds the browser demo served by `noisemap serve`.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed demo
var demoFS embed.FS

// DemoFS returns the demo page files rooted at the demo directory.
func DemoFS() fs.FS {
	sub, err := fs.Sub(demoFS, "demo")
	if err != nil {
		panic(err)
	}
	return sub
}
