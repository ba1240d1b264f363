// Package module defines the minimal contract for a modkit module
package module

// Module defines the minimal contract used by modkit: a name for logs and a
// port set other packages pull typed ports from
type Module interface {
	Ports() any
	Name() string
}
