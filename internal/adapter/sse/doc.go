// Package sse is the real-time push layer: a registry of open server-sent
// event connections and a hub that fans each event out to all of them.
//
// Mutation handlers call Hub.Broadcast after committing. The hub encodes the
// event once, snapshots the registry, and hands the frame to every
// subscriber without blocking. A subscriber that cannot accept the frame
// (closed, or its buffer is full) is evicted and the fan-out continues.
//
// Each connection is served by Handler, which owns one Client whose Run loop
// is the only writer to the underlying http.ResponseWriter.
package sse
