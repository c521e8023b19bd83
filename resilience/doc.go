// Package resilience holds the failure-handling primitives used around the
// datastores: Retry for establishing connections and Breaker for failing
// fast while a store is down.
//
//	client, err := resilience.Retry(ctx, resilience.RetryConfig{MaxAttempts: 3}, func(ctx context.Context) (*Client, error) {
//	    return dial(ctx)
//	})
//
//	b := resilience.NewBreaker(resilience.BreakerConfig{Name: "store", FailureThreshold: 5})
//	err := b.Do(func() error { return store.Ping(ctx) })
package resilience
