// Package value provides the dynamically-typed attribute value model shared
// by the metadata accessor and every backing store adapter.
//
// A Value is a sealed tagged variant: Null, Int, Bool, Float, String, Array,
// or Map. Absence of an attribute is represented by a nil Value, which is
// distinct from a stored Null. This package also owns the cast coercion
// rules, strict and structural equality, canonical string keys used for
// value bucketing, and dot-path tree operations.
//
// All other packages in this module import value; value imports nothing
// internal. This keeps it the foundational layer with no circular
// dependencies.
package value
