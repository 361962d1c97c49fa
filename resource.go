package toolwire

import "github.com/toolwire/toolwire/internal/catalog"

type (
	// Resource is a URI-addressed readable document. Content is resolved
	// by its Load function on every read, never cached.
	Resource = catalog.Resource

	// ResourceContent is the resolved content of one resource read.
	ResourceContent = catalog.Content

	// ResourceLoader resolves a resource's content on demand.
	ResourceLoader = catalog.Loader
)

// DefaultMIMEType is used for resources that declare no MIME type.
const DefaultMIMEType = catalog.DefaultMIMEType

// StaticResource creates a resource serving fixed text.
func StaticResource(uri, name, description, mimeType, text string) Resource {
	return catalog.Static(uri, name, description, mimeType, text)
}

// FileResource creates a resource backed by a file on disk. The file is
// re-read on every access, so readers observe updates.
func FileResource(uri, name, description, mimeType, path string) Resource {
	return catalog.File(uri, name, description, mimeType, path)
}
