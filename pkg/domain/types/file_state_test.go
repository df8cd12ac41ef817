package types_test

import (
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestFileState_IsTerminal(t *testing.T) {
	tests := []struct {
		name  string
		state types.FileState
		want  bool
	}{
		{name: "pending", state: types.FileStatePending, want: false},
		{name: "active", state: types.FileStateActive, want: true},
		{name: "failed", state: types.FileStateFailed, want: true},
		{name: "unknown", state: types.FileState("PROCESSING"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.state.IsTerminal()).Equal(tt.want)
		})
	}
}

func TestParseFileState(t *testing.T) {
	for _, s := range types.AllFileStates() {
		parsed, err := types.ParseFileState(s.String())
		gt.NoError(t, err).Required()
		gt.Value(t, parsed).Equal(s)
	}

	_, err := types.ParseFileState("DONE")
	gt.Value(t, err).NotNil()
}

func TestParsePipelineMode(t *testing.T) {
	t.Run("empty defaults to remote", func(t *testing.T) {
		mode, err := types.ParsePipelineMode("")
		gt.NoError(t, err).Required()
		gt.Value(t, mode).Equal(types.PipelineModeRemote)
	})

	t.Run("local", func(t *testing.T) {
		mode, err := types.ParsePipelineMode("local")
		gt.NoError(t, err).Required()
		gt.Value(t, mode).Equal(types.PipelineModeLocal)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := types.ParsePipelineMode("hybrid")
		gt.Value(t, err).NotNil()
	})
}

func TestParseArtifactKind(t *testing.T) {
	kind, err := types.ParseArtifactKind("chunkSet")
	gt.NoError(t, err).Required()
	gt.Value(t, kind).Equal(types.ArtifactKindChunkSet)

	_, err = types.ParseArtifactKind("blob")
	gt.Value(t, err).NotNil()
}
