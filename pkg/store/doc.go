// Package store persists the JSON files shared between components: the
// lookup cache, the failed id list, and the viewer favorites.
//
// All writes go through WriteJSON, which replaces the target atomically.
package store
