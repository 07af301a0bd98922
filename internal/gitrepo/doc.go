// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for resolving the repository root, inspecting
// the current branch and staging area, and performing the stage, commit, and
// push operations the commit-push workflow needs.
package gitrepo
