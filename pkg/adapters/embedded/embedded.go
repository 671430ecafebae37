// Package embedded ships the sample datasets of the three brands and the
// Hebrew translation dictionary inside the binary.
package embedded

import (
	"embed"
	"io/fs"

	"github.com/aretw0/advisor/pkg/adapters/file"
)

// TranslationsPath is the dictionary location inside FS.
const TranslationsPath = "translations/he.json"

//go:embed data
var data embed.FS

// FS returns the dataset filesystem rooted at the dataset directory.
func FS() fs.FS {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		panic(err) // the directory is compiled in
	}
	return sub
}

// NewLoader returns a dataset loader over the embedded datasets.
func NewLoader(opts ...file.LoaderOption) *file.Loader {
	return file.NewLoader(FS(), opts...)
}
