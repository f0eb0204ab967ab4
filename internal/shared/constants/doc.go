// Package constants centralizes defaults shared across the CLI, the API server
// and the checkers.
//
// Keeping timeouts, redirect limits and body-size caps in one place prevents
// magic numbers from scattering across cmd/ and internal/, and lets every
// package reference them without introducing import cycles.
package constants
