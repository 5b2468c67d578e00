package gitrepo

import (
	"strings"
)

const (
	currentDirectoryPrefixConstant    = "./"
	parentDirectoryPrefixConstant     = "../"
	currentDirectoryMarkerConstant    = "."
	parentDirectoryMarkerConstant     = ".."
	relativeURLEscapesMessageConstant = "relative url climbs above the base remote"
)

// IsRelativeSubmoduleURL reports whether a .gitmodules url is relative to the superproject remote.
func IsRelativeSubmoduleURL(submoduleURL string) bool {
	trimmedURL := strings.TrimSpace(submoduleURL)
	return strings.HasPrefix(trimmedURL, currentDirectoryPrefixConstant) ||
		strings.HasPrefix(trimmedURL, parentDirectoryPrefixConstant) ||
		trimmedURL == currentDirectoryMarkerConstant ||
		trimmedURL == parentDirectoryMarkerConstant
}

// ResolveSubmoduleURL resolves a relative submodule url against baseURL the way git submodule init does.
// Absolute urls are returned unchanged. baseURL may be a scheme url, an scp-like address or a local path.
func ResolveSubmoduleURL(baseURL string, submoduleURL string) (string, error) {
	trimmedURL := strings.TrimSpace(submoduleURL)
	if len(trimmedURL) == 0 {
		return "", RemoteURLParseError{Input: submoduleURL, Message: requiredValueMessageConstant}
	}
	if !IsRelativeSubmoduleURL(trimmedURL) {
		return trimmedURL, nil
	}

	trimmedBase := strings.TrimRight(strings.TrimSpace(baseURL), pathSeparatorConstant)
	if len(trimmedBase) == 0 {
		return "", RemoteURLParseError{Input: baseURL, Message: requiredValueMessageConstant}
	}

	base := splitRemoteBase(trimmedBase)
	segments := splitPathSegments(base.path)
	remainder := trimmedURL
	for len(remainder) > 0 {
		switch {
		case strings.HasPrefix(remainder, currentDirectoryPrefixConstant):
			remainder = remainder[len(currentDirectoryPrefixConstant):]
		case remainder == currentDirectoryMarkerConstant:
			remainder = ""
		case strings.HasPrefix(remainder, parentDirectoryPrefixConstant), remainder == parentDirectoryMarkerConstant:
			if len(segments) == 0 {
				return "", RemoteURLParseError{Input: submoduleURL, Message: relativeURLEscapesMessageConstant}
			}
			segments = segments[:len(segments)-1]
			remainder = strings.TrimPrefix(strings.TrimPrefix(remainder, parentDirectoryMarkerConstant), pathSeparatorConstant)
		default:
			segments = append(segments, splitPathSegments(remainder)...)
			remainder = ""
		}
	}

	return base.join(segments), nil
}

// remoteBase separates the addressing prefix of a remote from its path.
type remoteBase struct {
	prefix       string
	separator    string
	path         string
	absolutePath bool
}

func splitRemoteBase(remote string) remoteBase {
	if schemeIndex := strings.Index(remote, schemeDelimiterConstant); schemeIndex >= 0 {
		afterScheme := remote[schemeIndex+len(schemeDelimiterConstant):]
		hostEnd := strings.Index(afterScheme, pathSeparatorConstant)
		if hostEnd == -1 {
			return remoteBase{prefix: remote, separator: pathSeparatorConstant}
		}
		return remoteBase{
			prefix:    remote[:schemeIndex+len(schemeDelimiterConstant)+hostEnd],
			separator: pathSeparatorConstant,
			path:      afterScheme[hostEnd+1:],
		}
	}

	colonIndex := strings.Index(remote, scpPathDelimiterConstant)
	slashIndex := strings.Index(remote, pathSeparatorConstant)
	if colonIndex > 0 && (slashIndex == -1 || colonIndex < slashIndex) {
		return remoteBase{
			prefix:    remote[:colonIndex],
			separator: scpPathDelimiterConstant,
			path:      remote[colonIndex+1:],
		}
	}

	return remoteBase{path: remote, absolutePath: strings.HasPrefix(remote, pathSeparatorConstant)}
}

func (base remoteBase) join(segments []string) string {
	joinedPath := strings.Join(segments, pathSeparatorConstant)
	if base.absolutePath {
		joinedPath = pathSeparatorConstant + joinedPath
	}
	return base.prefix + base.separator + joinedPath
}

func splitPathSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, pathSeparatorConstant) {
		if len(segment) == 0 || segment == currentDirectoryMarkerConstant {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
