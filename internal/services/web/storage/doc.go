// Package storage declares persistence interfaces for detection data.
//
// Live counters stay in memory; storage only keeps the detection log and
// the summaries taken when a session is reset.
package storage
