package storage

import "io"

// BlobStore holds exported report files. The fs implementation is the
// default; a bucket-backed one can slot in behind the same interface.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	List(prefix string) ([]string, error)
}
