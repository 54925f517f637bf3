// Package ratelimit provides the throttling used between download candidates.
//
// The scraper inserts a fixed delay between candidates to avoid overloading
// the remote service. The delay is constant by design: errors do not widen
// it and successes do not shrink it.
//
// Usage:
//
//	limiter := ratelimit.NewFixedInterval(time.Second)
//
//	for _, candidate := range candidates {
//	    process(candidate)
//	    limiter.Wait()
//	}
package ratelimit
