// Package commitpush implements the guarded commit-and-push workflow: file
// normalization over an explicit allowlist, a whitespace-error gate, staging
// with forbidden-path validation, and the commit and push steps.
package commitpush
