package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	schemeDelimiterConstant             = "://"
	scpUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	unsupportedSchemeMessageConstant    = "unsupported remote scheme"
	missingRepositoryMessageConstant    = "remote path must name an owner and a repository"
	requiredValueMessageConstant        = "value required"
)

// RemoteProtocol enumerates the git remote transports recognized as hosted remotes.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
)

var schemeProtocols = map[string]RemoteProtocol{
	"ssh":   RemoteProtocolSSH,
	"https": RemoteProtocolHTTPS,
	"http":  RemoteProtocolHTTP,
	"git":   RemoteProtocolGit,
}

// RemoteURL is a hosted remote split into host, owner and repository.
// Owner keeps nested group segments such as "group/subgroup".
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL recognizes scheme URLs (ssh, https, http, git) and scp-like "user@host:owner/repository" remotes.
// Local paths and file URLs are rejected.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeDelimiterConstant) {
		return parseSchemeRemote(trimmedRemote)
	}
	if isSCPLikeRemote(trimmedRemote) {
		return parseSCPRemote(trimmedRemote)
	}
	return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
}

func parseSchemeRemote(remote string) (RemoteURL, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	protocol, supported := schemeProtocols[strings.ToLower(parsedURL.Scheme)]
	if !supported {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: unsupportedSchemeMessageConstant}
	}
	if len(parsedURL.Hostname()) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	owner, repository, splitError := splitOwnerAndRepository(remote, parsedURL.Path)
	if splitError != nil {
		return RemoteURL{}, splitError
	}
	return RemoteURL{Protocol: protocol, Host: parsedURL.Hostname(), Owner: owner, Repository: repository}, nil
}

// isSCPLikeRemote matches git's rule: a colon appears before any slash.
func isSCPLikeRemote(remote string) bool {
	colonIndex := strings.Index(remote, scpPathDelimiterConstant)
	if colonIndex <= 0 {
		return false
	}
	slashIndex := strings.Index(remote, pathSeparatorConstant)
	return slashIndex == -1 || colonIndex < slashIndex
}

func parseSCPRemote(remote string) (RemoteURL, error) {
	hostPart, pathPart, _ := strings.Cut(remote, scpPathDelimiterConstant)
	if userSplitIndex := strings.LastIndex(hostPart, scpUserDelimiterConstant); userSplitIndex >= 0 {
		hostPart = hostPart[userSplitIndex+1:]
	}
	if len(hostPart) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	owner, repository, splitError := splitOwnerAndRepository(remote, pathPart)
	if splitError != nil {
		return RemoteURL{}, splitError
	}
	return RemoteURL{Protocol: RemoteProtocolSSH, Host: hostPart, Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(remote string, path string) (string, string, error) {
	trimmedPath := strings.Trim(path, pathSeparatorConstant)
	separatorIndex := strings.LastIndex(trimmedPath, pathSeparatorConstant)
	if separatorIndex <= 0 {
		return "", "", RemoteURLParseError{Input: remote, Message: missingRepositoryMessageConstant}
	}
	repository := strings.TrimSuffix(trimmedPath[separatorIndex+1:], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: remote, Message: missingRepositoryMessageConstant}
	}
	return trimmedPath[:separatorIndex], repository, nil
}

// DisplayName renders owner/repository, the short form shown for hosted remotes.
func (remote RemoteURL) DisplayName() string {
	return remote.Owner + pathSeparatorConstant + remote.Repository
}
