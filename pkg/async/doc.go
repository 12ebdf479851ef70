// Package async provides a small generic Future type for pending results.
//
// A Future is obtained from Async, which runs the supplied function in its
// own goroutine, or from Resolved and Rejected, which return futures that are
// already settled without spawning anything. Callers wait with Await, with
// AwaitContext to honour cancellation, or poll with IsComplete.
//
// Panics raised inside an Async function are recovered and surface as a
// *PanicError from Await, so a misbehaving callback never takes down the
// process that waits on it.
//
// # Usage
//
//	future := async.Async(ctx, email, func(ctx context.Context, email string) (bool, error) {
//	    return store.Exists(ctx, email)
//	})
//
//	taken, err := future.AwaitContext(ctx)
//
// # Error Handling
//
// Await returns the error produced by the callback. AwaitContext returns the
// context error if the context ends first; the underlying goroutine keeps
// running until the callback returns.
package async
