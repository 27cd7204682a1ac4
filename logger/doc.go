// Package logger provides structured logging for pipekit built on zerolog.
//
// Components obtain a tagged logger via Get or WithComponent; runners and
// hooks log node and dataset events through it. The package keeps a global
// logger for convenience but every core type also accepts an injected one.
package logger
