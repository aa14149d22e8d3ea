// Package service is the application layer of the correction service. The
// TaskService validates requests, owns every task state transition, runs each
// read-modify-write as one unit of work and publishes lifecycle events.
//
// Services receive their store and event emitter by constructor injection and
// never depend on a concrete storage implementation.
package service
