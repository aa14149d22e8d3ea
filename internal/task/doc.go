// Package task runs the background work of the correction service: a drain
// loop that corrects pending tasks and a recovery loop that fails tasks stuck
// in processing. Both loops survive restarts because all state lives in the
// task store.
package task
