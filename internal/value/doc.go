// Package value defines the in-memory form of a snapshot document.
//
// A snapshot is a Mapping whose leaves are one of a closed set of variants:
// Scalar, Bool, Text, Array, Table, List, Null or a nested Mapping. Arrays and
// tables never appear in a YAML document directly; the snapshot package
// externalizes them to sibling files first, and EncodeYAML refuses them.
//
// Mappings keep insertion order so that documents written by an operator keep
// their layout when saved back.
package value
