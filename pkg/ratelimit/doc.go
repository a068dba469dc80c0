// Package ratelimit paces outgoing requests.
//
// Pacer wraps golang.org/x/time/rate with a burst of one, so consecutive
// Wait calls return at least the configured interval apart. The first call
// never blocks.
//
//	pacer := ratelimit.NewPacer(time.Second)
//	for _, d := range descriptors {
//		if err := pacer.Wait(ctx); err != nil {
//			return err
//		}
//		lookup(d)
//	}
package ratelimit
