// Package domain contains the core entities of the correction service: the
// Task with its status-specific state, languages, correction options, content
// validation rules and the domain error taxonomy. It has no dependencies on
// storage or transport.
package domain
