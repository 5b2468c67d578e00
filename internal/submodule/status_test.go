package submodule

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
)

const (
	testRecordedCommitConstant = "1111111111111111111111111111111111111111"
	testOtherCommitConstant    = "2222222222222222222222222222222222222222"
)

var (
	testRecordedCommitID = plumbing.NewHash(testRecordedCommitConstant)
	testOtherCommitID    = plumbing.NewHash(testOtherCommitConstant)
)

func checkedOutSnapshot() statusSnapshot {
	return statusSnapshot{
		inHead:            true,
		inIndex:           true,
		inConfig:          true,
		headID:            testRecordedCommitID,
		indexID:           testRecordedCommitID,
		workdirPathExists: true,
		workdir:           WorkdirInspection{Present: true, HeadID: testRecordedCommitID},
	}
}

func dirtySnapshot() statusSnapshot {
	snapshot := checkedOutSnapshot()
	snapshot.workdir.Staged = true
	snapshot.workdir.Unstaged = true
	snapshot.workdir.Untracked = true
	return snapshot
}

func TestComputeStatus(testInstance *testing.T) {
	const everywhere = StatusInHead | StatusInIndex | StatusInConfig | StatusInWorkdir
	const recorded = StatusInHead | StatusInIndex | StatusInConfig
	const dirtyBits = StatusWorkdirIndexModified | StatusWorkdirWorkdirModified | StatusWorkdirUntracked

	testCases := []struct {
		name           string
		snapshot       func() statusSnapshot
		rule           IgnoreRule
		expectedStatus StatusFlags
	}{
		{
			name:           "checked_out_clean",
			snapshot:       checkedOutSnapshot,
			rule:           IgnoreNone,
			expectedStatus: everywhere,
		},
		{
			name: "empty_directory",
			snapshot: func() statusSnapshot {
				snapshot := checkedOutSnapshot()
				snapshot.workdir = WorkdirInspection{}
				return snapshot
			},
			rule:           IgnoreNone,
			expectedStatus: recorded | StatusWorkdirUninitialized,
		},
		{
			name: "path_removed",
			snapshot: func() statusSnapshot {
				snapshot := checkedOutSnapshot()
				snapshot.workdir = WorkdirInspection{}
				snapshot.workdirPathExists = false
				return snapshot
			},
			rule:           IgnoreNone,
			expectedStatus: recorded | StatusWorkdirUninitialized | StatusWorkdirDeleted,
		},
		{
			name: "staged_not_committed",
			snapshot: func() statusSnapshot {
				snapshot := checkedOutSnapshot()
				snapshot.inHead = false
				snapshot.headID = plumbing.ZeroHash
				return snapshot
			},
			rule:           IgnoreNone,
			expectedStatus: StatusInIndex | StatusInConfig | StatusInWorkdir | StatusIndexAdded,
		},
		{
			name: "removed_from_index",
			snapshot: func() statusSnapshot {
				snapshot := checkedOutSnapshot()
				snapshot.inIndex = false
				snapshot.indexID = plumbing.ZeroHash
				return snapshot
			},
			rule:           IgnoreNone,
			expectedStatus: StatusInHead | StatusInConfig | StatusInWorkdir | StatusIndexDeleted | StatusWorkdirAdded,
		},
		{
			name: "index_points_elsewhere",
			snapshot: func() statusSnapshot {
				snapshot := checkedOutSnapshot()
				snapshot.indexID = testOtherCommitID
				return snapshot
			},
			rule:           IgnoreNone,
			expectedStatus: everywhere | StatusIndexModified | StatusWorkdirModified,
		},
		{
			name: "workdir_moved_ahead",
			snapshot: func() statusSnapshot {
				snapshot := checkedOutSnapshot()
				snapshot.workdir.HeadID = testOtherCommitID
				return snapshot
			},
			rule:           IgnoreNone,
			expectedStatus: everywhere | StatusWorkdirModified,
		},
		{
			name:           "dirty_reported",
			snapshot:       dirtySnapshot,
			rule:           IgnoreNone,
			expectedStatus: everywhere | dirtyBits,
		},
		{
			name:           "dirty_ignore_untracked",
			snapshot:       dirtySnapshot,
			rule:           IgnoreUntracked,
			expectedStatus: everywhere | StatusWorkdirIndexModified | StatusWorkdirWorkdirModified,
		},
		{
			name: "dirty_ignore_dirty_keeps_moved_head",
			snapshot: func() statusSnapshot {
				snapshot := dirtySnapshot()
				snapshot.workdir.HeadID = testOtherCommitID
				return snapshot
			},
			rule:           IgnoreDirty,
			expectedStatus: everywhere | StatusWorkdirModified,
		},
		{
			name: "ignore_all_keeps_location",
			snapshot: func() statusSnapshot {
				snapshot := dirtySnapshot()
				snapshot.indexID = testOtherCommitID
				return snapshot
			},
			rule:           IgnoreAll,
			expectedStatus: everywhere,
		},
		{
			name: "ignore_all_keeps_uninitialized",
			snapshot: func() statusSnapshot {
				snapshot := checkedOutSnapshot()
				snapshot.workdir = WorkdirInspection{}
				snapshot.workdirPathExists = false
				return snapshot
			},
			rule:           IgnoreAll,
			expectedStatus: recorded | StatusWorkdirUninitialized,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			status := computeStatus(testCase.snapshot(), testCase.rule)
			require.Equal(testInstance, testCase.expectedStatus, status, status.String())
		})
	}
}

func TestStatusFlagsPredicates(testInstance *testing.T) {
	clean := StatusInHead | StatusInIndex | StatusInConfig | StatusInWorkdir
	require.True(testInstance, clean.IsUnmodified())
	require.True(testInstance, StatusUnmodified.IsUnmodified())
	require.False(testInstance, (clean | StatusWorkdirUntracked).IsUnmodified())
	require.False(testInstance, (clean | StatusWorkdirUninitialized).IsUnmodified())

	require.True(testInstance, clean.Has(StatusInHead|StatusInWorkdir))
	require.False(testInstance, clean.Has(StatusInHead|StatusIndexAdded))
	require.Equal(testInstance, []StatusFlags{StatusInHead, StatusInIndex, StatusInConfig, StatusInWorkdir}, clean.Flags())
}

func TestStatusFlagsString(testInstance *testing.T) {
	require.Equal(testInstance, "unmodified", StatusUnmodified.String())
	require.Equal(testInstance, "in-head|in-index|workdir-untracked", (StatusInHead | StatusInIndex | StatusWorkdirUntracked).String())

	encoded, encodeError := (StatusInConfig | StatusWorkdirUninitialized).MarshalText()
	require.NoError(testInstance, encodeError)
	require.Equal(testInstance, "in-config|workdir-uninitialized", string(encoded))
}
