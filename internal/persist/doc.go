// Package persist binds a typed value to a storage key.
//
// A State hydrates lazily: the first Get reads the key and decodes it, or
// falls back to the initial value when the key is absent. Nothing is written
// during hydration. Every Set replaces the value and then writes the encoded
// value back under the same key, so the next hydration of that key in the
// same session returns what was last set.
//
//	tasks := persist.New(store, "tasks", defaults)
//	list, err := tasks.Get()
//	err = tasks.Set(append(slices.Clone(list), next))
//
// Entries that fail to decode or validate are reported as ErrCorrupt unless
// the state was built with WithRecovery(RecoverReset), in which case the
// initial value is used and the bad entry is overwritten by the next Set.
package persist
