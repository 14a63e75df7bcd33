// Package api defines the shared vocabulary of the meme pipeline: argument
// maps, shapes, step results, and the wire types exchanged with callers.
package api
