// Package language defines the closed set of target spoken languages the
// generation gateway accepts.
package language
