// Package storage defines the media folder abstraction.
package storage

// Provider is the interface for media folder operations. Names are plain
// file names relative to the folder root.
type Provider interface {
	// List returns the names of the regular files directly under the root.
	List() ([]string, error)
	// Delete removes the named file.
	Delete(name string) error
}
