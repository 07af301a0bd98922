// Package normalize rewrites text files to LF line endings without trailing
// whitespace. Files that are missing or fail UTF-8 decoding are skipped
// silently; normalization is a convenience pass, not a correctness gate.
package normalize
