// Package gitrepo interprets git remote addresses.
//
// ParseRemoteURL extracts owner and repository from hosted remotes, and
// ResolveSubmoduleURL turns relative .gitmodules urls into the addresses
// git submodule init would record.
package gitrepo
