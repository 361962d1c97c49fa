// Package catalog holds the fixed set of readable resources.
//
// A Resource pairs a URI with a lazy content loader. The catalog itself is
// immutable after construction; loaders run on every read and results are
// never cached, so repeated reads can observe updated underlying content.
package catalog
