// Package localstore provides a small string key/value store for
// client-side state (cart, favorites). The file-backed implementation
// persists each key as a JSON document under a state directory; the
// in-memory one backs tests and ephemeral sessions.
package localstore

// Store is a minimal persistent key/value surface. Get returns ok=false
// for absent keys; implementations treat unreadable values as absent
// rather than failing the caller.
type Store interface {
	Get(key string) (value string, ok bool)
	Set(key string, value string) error
	Delete(key string) error
}
