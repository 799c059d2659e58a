// Package mock provides function-field mock implementations of the docbase
// interfaces for testing.
package mock
