// Package command maps textual command names and raw arguments onto a store.IStore.
//
// It is the front-end used by the CLI: a command such as
//
//	SADD english Steve Paul
//
// is resolved with ParseCommandType, checked for arity, its integer arguments are parsed
// and the matching store method is called. The result is returned as a Reply that is
// either nil, an integer, a single bulk value, an array of values or a status string.
//
// Multi-key forms follow Redis: DEL and EXISTS accept several keys and return a count,
// SADD and SREM accept several members, SPOP without a count returns a single member.
// QUIT and SHUTDOWN are aliases for CLOSE.
//
// Errors:
//
//	Unknown command names (EXPIRE, HSET, LPUSH, EVAL, ...) are logged as a warning,
//	counted in sqkv_unsupported_commands_total and rejected with a *store.Error of
//	code RetCUnsupportedOperation. Wrong arity and malformed integers produce
//	RetCInvalidOperation. Store errors are passed through unchanged.
//
// Metrics:
//
//	sqkv_commands_total{command="<name>"}   dispatched commands per name
//	sqkv_unsupported_commands_total         rejected unknown commands
//	sqkv_command_errors_total               commands that returned an error
package command
