// Package gateway is the HTTP client for the podcast generation backend.
package gateway
