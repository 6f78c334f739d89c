// Package op provides the named-op registry and the chain-sequenced op
// executor sitting between the runtime and its collaborators.
//
// Collaborators (driver bindings, communication libraries, test kernels)
// register callables keyed by a name string. At invocation time a handler
// receives its arguments already resolved and unwrapped to concrete values,
// the invocation's ExecContext, and an immutable attribute bag; it returns
// concrete results, async values for results it produces later, or an
// error.
//
// Execute publishes unconstructed result cells immediately so callers can
// chain without blocking, waits for the op's inputs, short-circuits errors
// (a failed input fails every result without running the body), and runs
// the body on the non-blocking pool. An optional chain serializes the side
// effects of ops that share no data; see Execute for the exact contract.
package op
