// Package action runs keyed remote operations with single-flight semantics.
//
// An Action has a deterministic key derived only from its parameters. The
// Manager guarantees that at most one execution per key is in flight: a
// second invocation of a key that is already running attaches to the same
// Handle instead of issuing another remote call. Distinct keys run
// concurrently, each on its own goroutine.
//
// Two runner shapes cover the catalog API:
//   - Single: one remote call, one response handler
//   - Paged / PagedBatch: fetch pages 1..N until the cursor reports no more,
//     handing each page to a streaming handler or accumulating them for one
//     batch handler
//
// # Error Model
//
// Every failure leaving an action is an *Error carrying the action key and,
// for paged actions, the page that failed. The underlying transport, API, or
// store error stays reachable through errors.Is / errors.As. All callers
// attached to one execution receive the same error value. Failures are never
// cached: the next invocation of the key runs again.
//
// # Cancellation
//
// Executions are detached from the invoking context (context.WithoutCancel).
// A caller whose context ends stops waiting; the execution keeps running to
// completion. Long batch loops poll Manager.Stopped between items.
package action
