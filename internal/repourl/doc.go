// Package repourl validates and parses hosted source repository URLs.
package repourl
