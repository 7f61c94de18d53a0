// Package domain defines the core domain types and interfaces.
//
// Files are concept-oriented (user.go, message.go, post.go, event.go) and
// hold contracts only. Interfaces live here so adapters and the app layer
// can depend on them without importing each other.
package domain
