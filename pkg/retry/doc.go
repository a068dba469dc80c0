// Package retry provides exponential backoff and retry logic for transient
// failures in lookups and image downloads.
//
// Basic usage:
//
//	err := retry.Do(func() error {
//		_, err := client.Lookup(ctx, sig, inspect)
//		return err
//	}, &retry.Config{
//		MaxAttempts: 5,
//		Backoff:     retry.Doubling(time.Second),
//		RetryIf:     retry.RetryAll,
//		Context:     ctx,
//	})
//
// The returned error wraps ErrMaxAttempts and the last operation error once
// every attempt has failed. The wait after attempt n is Backoff.NextDelay(n),
// and there is no wait after the last attempt. Tests can replace Sleep to
// record the waits instead of sleeping.
package retry
