// Package events publishes task lifecycle notifications.
//
// The task service emits one TaskEvent per state transition. Handlers such as
// the metrics recorder subscribe through an EventEmitter without the service
// knowing about them.
//
// The primary components are:
// - TaskEvent: a single transition of a single task
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
package events
