// Package api exposes the task service over HTTP. It decodes and validates
// requests, maps service errors to status codes and error codes, and renders
// tasks as JSON.
package api
