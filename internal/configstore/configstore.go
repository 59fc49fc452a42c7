// Package configstore abstracts where the serialized configuration lives.
//
// Core logic depends only on the KV capability interface; each target
// environment supplies one backend. The keyring backend uses the OS
// credential store and is preferred wherever one exists; the bolt backend
// is the file-backed fallback for headless environments.
package configstore

import "errors"

// ErrKeyNotFound is returned by Get and Delete for absent keys.
var ErrKeyNotFound = errors.New("configstore: key not found")

// KV is the minimal capability a config backend must provide.
type KV interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}
