package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/toolwire/toolwire/internal/errors"
)

// DefaultMIMEType is used when a resource declares no MIME type.
const DefaultMIMEType = "text/plain"

// Loader resolves a resource's content. Loaders may perform I/O and run on
// every read.
type Loader func(ctx context.Context) (string, error)

// Resource is a URI-addressed readable document.
type Resource struct {
	URI         string
	Name        string
	Description string

	// MIMEType of the content; empty means DefaultMIMEType at read time.
	MIMEType string

	Load Loader
}

// Content is one resolved document.
type Content struct {
	URI      string
	MIMEType string
	Text     string
}

// Catalog is the fixed set of readable resources, keyed by URI. The set is
// immutable after construction, so reads need no locking.
type Catalog struct {
	log       *slog.Logger
	resources map[string]Resource
	order     []string
}

// New builds a catalog. A later resource with a duplicate URI replaces the
// earlier one but keeps its position.
func New(log *slog.Logger, resources ...Resource) *Catalog {
	c := &Catalog{
		log:       log.With("component", "catalog"),
		resources: make(map[string]Resource, len(resources)),
	}

	for _, res := range resources {
		if _, exists := c.resources[res.URI]; !exists {
			c.order = append(c.order, res.URI)
		}

		c.resources[res.URI] = res
	}

	return c
}

// Get returns the resource registered under uri.
func (c *Catalog) Get(uri string) (Resource, bool) {
	res, ok := c.resources[uri]

	return res, ok
}

// All returns the resources in catalog order.
func (c *Catalog) All() []Resource {
	out := make([]Resource, 0, len(c.order))
	for _, uri := range c.order {
		out = append(out, c.resources[uri])
	}

	return out
}

// Len returns the number of cataloged resources.
func (c *Catalog) Len() int {
	return len(c.resources)
}

// Read resolves uri to its content. Unknown URIs return
// errors.ErrResourceNotFound; loader failures are returned wrapped.
func (c *Catalog) Read(ctx context.Context, uri string) (Content, error) {
	res, ok := c.resources[uri]
	if !ok {
		return Content{}, fmt.Errorf("%w: %s", errors.ErrResourceNotFound, uri)
	}

	mimeType := res.MIMEType
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}

	if res.Load == nil {
		return Content{URI: uri, MIMEType: mimeType}, nil
	}

	c.log.Debug("reading resource", "uri", uri)

	text, err := res.Load(ctx)
	if err != nil {
		return Content{}, fmt.Errorf("read resource %s: %w", uri, err)
	}

	return Content{URI: uri, MIMEType: mimeType, Text: text}, nil
}

// Static returns a resource serving fixed text.
func Static(uri, name, description, mimeType, text string) Resource {
	return Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    mimeType,
		Load: func(context.Context) (string, error) {
			return text, nil
		},
	}
}

// File returns a resource that reads path on every access, so repeated
// reads observe the file's current content.
func File(uri, name, description, mimeType, path string) Resource {
	return Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    mimeType,
		Load: func(context.Context) (string, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", path, err)
			}

			return string(data), nil
		},
	}
}
