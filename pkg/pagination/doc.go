// Package pagination computes bounded page windows for paginated result sets.
//
// The package is pure: every function is deterministic, allocation-light, and
// safe for concurrent use. Inputs outside the valid domain are clamped rather
// than rejected, so none of the functions return errors.
//
// A window is a short sequence of [Token] values. Each token is either a page
// number or a collapse marker standing in for one or more omitted pages:
//
//	Window(6, 10) => [1 - 5 6 7 - 10]
package pagination
