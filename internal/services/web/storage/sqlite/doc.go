// Package sqlite provides SQLite-backed persistence for detection data.
package sqlite
