// Package migrations contains the store's schema history. Each migration
// registers itself from init(); importing this package (blank import is
// enough) makes the full history available to migration.New.
package migrations
