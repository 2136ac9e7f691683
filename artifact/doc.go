// Package artifact contains implementations of core.DocumentStore, the
// persistence used by the writer agent for generated documents.
//
// FileStore writes documents into a directory (by default "docs") so they can
// be committed together with the code they describe. InMemoryStore keeps
// documents in process memory and is meant for tests and dry runs.
//
// Callers should depend on the core interface rather than concrete types so
// they can substitute alternative persistence layers.
package artifact
