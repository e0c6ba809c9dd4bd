// Package httputil provides retry helpers for HTTP clients.
//
// [Retry] runs an operation up to a fixed number of attempts with
// exponential backoff. Only errors wrapped in [RetryableError] are retried;
// wrap transient failures (network errors, 429 and 5xx responses) and
// return everything else as is:
//
//	err := httputil.Retry(ctx, 3, 200*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// The remote record searcher in the query package is the main user.
package httputil
