// Package schema validates values against declared shapes. Validation is a
// pure function of the shape and the value: it accumulates every violation
// with a fully qualified field path rather than stopping at the first, so a
// caller can report all problems in one pass.
package schema
