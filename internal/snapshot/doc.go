// Package snapshot converts between in-memory snapshot mappings and their
// on-disk form: a YAML document plus sibling payload files.
//
// Array and table leaves are externalized to files named after their key
// path. Keys of enclosing mappings contribute a "+"-joined prefix, so
//
//	subcomponent:
//	  x: <array>
//
// is written as subcomponent+x.npy and the document keeps
// "x: subcomponent+x.npy" in place of the array. Rehydration reverses this by
// loading any string leaf that names an existing sibling payload file.
package snapshot
