package submodule

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const (
	statusFlagSeparatorConstant  = "|"
	statusUnmodifiedNameConstant = "unmodified"
)

// StatusFlags is a bitmask describing where a submodule is recorded and how it differs between locations.
type StatusFlags uint32

// Status flags. StatusUnmodified is the empty mask.
const (
	StatusUnmodified             StatusFlags = 0
	StatusInHead                 StatusFlags = 1 << 0
	StatusInIndex                StatusFlags = 1 << 1
	StatusInConfig               StatusFlags = 1 << 2
	StatusInWorkdir              StatusFlags = 1 << 3
	StatusIndexAdded             StatusFlags = 1 << 4
	StatusIndexDeleted           StatusFlags = 1 << 5
	StatusIndexModified          StatusFlags = 1 << 6
	StatusWorkdirUninitialized   StatusFlags = 1 << 7
	StatusWorkdirAdded           StatusFlags = 1 << 8
	StatusWorkdirDeleted         StatusFlags = 1 << 9
	StatusWorkdirModified        StatusFlags = 1 << 10
	StatusWorkdirIndexModified   StatusFlags = 1 << 11
	StatusWorkdirWorkdirModified StatusFlags = 1 << 12
	StatusWorkdirUntracked       StatusFlags = 1 << 13
)

const (
	statusLocationMask = StatusInHead | StatusInIndex | StatusInConfig | StatusInWorkdir
	statusIndexMask    = StatusIndexAdded | StatusIndexDeleted | StatusIndexModified
	statusDirtyMask    = StatusWorkdirIndexModified | StatusWorkdirWorkdirModified | StatusWorkdirUntracked
	statusWorkdirMask  = StatusWorkdirAdded | StatusWorkdirDeleted | StatusWorkdirModified | statusDirtyMask
)

type statusFlagName struct {
	flag StatusFlags
	name string
}

var orderedStatusFlagNames = []statusFlagName{
	{flag: StatusInHead, name: "in-head"},
	{flag: StatusInIndex, name: "in-index"},
	{flag: StatusInConfig, name: "in-config"},
	{flag: StatusInWorkdir, name: "in-workdir"},
	{flag: StatusIndexAdded, name: "index-added"},
	{flag: StatusIndexDeleted, name: "index-deleted"},
	{flag: StatusIndexModified, name: "index-modified"},
	{flag: StatusWorkdirUninitialized, name: "workdir-uninitialized"},
	{flag: StatusWorkdirAdded, name: "workdir-added"},
	{flag: StatusWorkdirDeleted, name: "workdir-deleted"},
	{flag: StatusWorkdirModified, name: "workdir-modified"},
	{flag: StatusWorkdirIndexModified, name: "workdir-index-modified"},
	{flag: StatusWorkdirWorkdirModified, name: "workdir-workdir-modified"},
	{flag: StatusWorkdirUntracked, name: "workdir-untracked"},
}

// Has reports whether every bit of flag is set.
func (status StatusFlags) Has(flag StatusFlags) bool {
	return status&flag == flag
}

// IsUnmodified reports whether only location bits are set.
func (status StatusFlags) IsUnmodified() bool {
	return status&^statusLocationMask == 0
}

// Flags returns the individual flags in bit order.
func (status StatusFlags) Flags() []StatusFlags {
	var flags []StatusFlags
	for _, entry := range orderedStatusFlagNames {
		if status.Has(entry.flag) {
			flags = append(flags, entry.flag)
		}
	}
	return flags
}

// String renders the set flags joined by "|".
func (status StatusFlags) String() string {
	if status == StatusUnmodified {
		return statusUnmodifiedNameConstant
	}
	var names []string
	for _, entry := range orderedStatusFlagNames {
		if status.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, statusFlagSeparatorConstant)
}

// MarshalText implements encoding.TextMarshaler.
func (status StatusFlags) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

// withIgnoreRule clears the bits the rule suppresses.
func (status StatusFlags) withIgnoreRule(rule IgnoreRule) StatusFlags {
	switch rule {
	case IgnoreAll:
		return status &^ (statusIndexMask | statusWorkdirMask)
	case IgnoreDirty:
		return status &^ statusDirtyMask
	case IgnoreUntracked:
		return status &^ StatusWorkdirUntracked
	default:
		return status
	}
}

// statusSnapshot captures the observations a status computation needs.
type statusSnapshot struct {
	inHead            bool
	inIndex           bool
	inConfig          bool
	headID            plumbing.Hash
	indexID           plumbing.Hash
	workdirPathExists bool
	workdir           WorkdirInspection
}

func computeStatus(snapshot statusSnapshot, rule IgnoreRule) StatusFlags {
	var status StatusFlags
	if snapshot.inHead {
		status |= StatusInHead
	}
	if snapshot.inIndex {
		status |= StatusInIndex
	}
	if snapshot.inConfig {
		status |= StatusInConfig
	}
	if snapshot.workdir.Present {
		status |= StatusInWorkdir
	}

	switch {
	case snapshot.inIndex && !snapshot.inHead:
		status |= StatusIndexAdded
	case snapshot.inHead && !snapshot.inIndex:
		status |= StatusIndexDeleted
	case snapshot.inHead && snapshot.inIndex && snapshot.headID != snapshot.indexID:
		status |= StatusIndexModified
	}

	switch {
	case !snapshot.workdir.Present:
		status |= StatusWorkdirUninitialized
		if snapshot.inIndex && !snapshot.workdirPathExists {
			status |= StatusWorkdirDeleted
		}
	case !snapshot.inIndex:
		status |= StatusWorkdirAdded
	case snapshot.workdir.HeadID != snapshot.indexID:
		status |= StatusWorkdirModified
	}

	if snapshot.workdir.Present {
		if snapshot.workdir.Staged {
			status |= StatusWorkdirIndexModified
		}
		if snapshot.workdir.Unstaged {
			status |= StatusWorkdirWorkdirModified
		}
		if snapshot.workdir.Untracked {
			status |= StatusWorkdirUntracked
		}
	}

	return status.withIgnoreRule(rule)
}
