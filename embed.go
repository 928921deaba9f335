// Package web bundles the site templates, copy, message catalogues and static assets
// into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates locales content public
var files embed.FS

// FS returns the embedded tree rooted at the repository root: templates/, locales/,
// content/ and public/.
func FS() fs.FS {
	return files
}

// Templates returns the template tree (layouts/, partials/, pages/).
func Templates() fs.FS {
	return sub("templates")
}

// Assets returns the static files served under /assets/.
func Assets() fs.FS {
	return sub("public/assets")
}

func sub(dir string) fs.FS {
	out, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return out
}
