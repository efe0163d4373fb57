package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
)

func TestValidateEndpointNodes(t *testing.T) {
	owned := func(id int64) *GraphNode { return &GraphNode{ID: id, UserID: 10} }
	foreign := func(id int64) *GraphNode { return &GraphNode{ID: id, UserID: 99} }

	tests := []struct {
		name    string
		src     *GraphNode
		dst     *GraphNode
		wantErr error
	}{
		{
			name: "both owned",
			src:  owned(1), dst: owned(2),
		},
		{
			name: "source not owned",
			src:  foreign(1), dst: owned(2),
			wantErr: apperror.ErrNotOwner,
		},
		{
			name: "target not owned",
			src:  owned(1), dst: foreign(2),
			wantErr: apperror.ErrNotOwner,
		},
		{
			name: "self reference",
			src:  owned(1), dst: owned(1),
			wantErr: apperror.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEndpointNodes(10, tt.src, tt.dst)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tt.wantErr.(*apperror.Error).Is(err), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestOwnershipViolationIsDistinctFromNotFound(t *testing.T) {
	err := validateEndpointNodes(10, &GraphNode{ID: 1, UserID: 99}, &GraphNode{ID: 2, UserID: 10})

	assert.True(t, apperror.IsNotOwner(err))
	assert.False(t, apperror.ErrNotFound.Is(err))
	assert.False(t, apperror.ErrDatabase.Is(err))
}
