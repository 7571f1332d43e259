package document

import (
	"path"
	"strings"
)

// Extension of every document written by polyglot.
const Extension = ".yaml"

// PagePath returns the locale-relative document path for a page path.
// "about/index.html" maps to "about/index.yaml"; a directory page such as
// "about/" maps to "about/index.yaml".
func PagePath(page string) string {
	p := strings.TrimPrefix(page, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	switch ext := path.Ext(p); ext {
	case ".html", ".htm":
		p = strings.TrimSuffix(p, ext)
	}
	return p + Extension
}

// NamespacePath returns the locale-relative document path for a namespace.
func NamespacePath(namespace string) string {
	return namespace + Extension
}

// IsDocument reports whether a file name is a translation document.
func IsDocument(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}
