// Package drivers provides the stock capability providers a session is
// assembled from. Each driver is a plain struct configured with functional
// options; all of them are safe for use from the goroutine that runs the
// core and from the host side concurrently.
package drivers
