// Package viewer holds the browsing state behind the terminal viewer: the
// cached items in one of three orders, their rank annotations, favorites and
// the local image for each item.
package viewer
