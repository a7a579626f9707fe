// Command repocast turns a public GitHub repository into a podcast episode:
// it submits the repository to a generation gateway, waits for the audio to
// be produced, and keeps finished episodes in a local library.
package main
