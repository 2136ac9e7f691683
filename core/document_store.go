package core

// DocumentStore defines persistence for generated documents keyed by name
// (e.g. "getting_started.md"). Short method names (Save/Get/List/Delete)
// mirror the other store interfaces.
type DocumentStore interface {
	Save(name string, data []byte) error
	Get(name string) ([]byte, error)
	List() ([]string, error)
	Delete(name string) error
}
