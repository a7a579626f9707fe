// Package preflight runs environment checks before generation or playback:
// gateway reachability, directory permissions, player binaries, and disk
// headroom for downloaded episodes.
package preflight
