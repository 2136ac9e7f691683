package core

// ReferenceStore persists the url -> title reference mapping. The mapping is
// read fully before a write session and written back in full afterwards.
type ReferenceStore interface {
	Load() (map[string]string, error)
	Save(refs map[string]string) error
}
