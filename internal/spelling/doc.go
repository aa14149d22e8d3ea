// Package spelling defines the port to the external spell-checking service:
// the Speller interface, the correction records it reports, and the algorithm
// that applies those records to a submitted chunk of text. Concrete transports
// live under internal/platform.
package spelling
