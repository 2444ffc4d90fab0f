// Package environ merges KEY=VALUE environment lists.
//
// Environment lists come from image configs as "KEY=VALUE" strings and from
// container configs and build steps as maps. Entries without an "=" are
// skipped. Later sources override earlier ones, and formatted output is
// sorted by key so that generated specs are reproducible.
package environ
