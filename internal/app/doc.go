// Package app provides the application service layer.
//
// Orchestrates the mutations that feed the live event stream (direct
// messages, likes, comments) and the inbox reads. Services commit through
// domain repositories first and broadcast afterwards, so a pushed event
// always describes stored state.
package app
