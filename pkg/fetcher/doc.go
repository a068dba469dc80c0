// Package fetcher turns input descriptors into cached items.
//
// Descriptors are handled strictly one after another. A descriptor whose id
// is in the cache is reused verbatim. Any other descriptor waits for the
// pacer, then is looked up with up to MaxRetries attempts. Every failure
// (rate limit, other status, transport, or parse error) waits the current
// delay and doubles it, starting at BaseDelay; the last attempt is not
// followed by a wait. Ids that exhaust their attempts are recorded in the
// failed list and the batch moves on.
package fetcher
