// Package emitter is an in-process publish/subscribe dispatcher.
//
// Listeners register against event types or dot-delimited scopes. Emit runs
// every applicable listener in a fixed order and waits for asynchronous
// results before it returns:
//
//	scope listeners ("" -> "a" -> "a.b")
//	exact type listeners (unscoped, then each applicable scope)
//	ancestor type listeners (embedded structs, most specific first)
//
// The global namespace always runs before the namespace given to Emit.
// Listener failures are re-emitted as *ListenerError events in the failing
// listener's namespace unless the listener was registered with RaiseOnError.
package emitter
