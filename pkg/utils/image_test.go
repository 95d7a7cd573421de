package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetImageNameAndTag(t *testing.T) {
	tests := []struct {
		link     string
		wantName string
		wantTag  string
		wantErr  bool
	}{
		{
			link:     "harbor.example.com/user-alice/pytorch-classification:0830-1254-a1b2",
			wantName: "pytorch-classification",
			wantTag:  "0830-1254-a1b2",
		},
		{
			link:     "registry.local:5000/user-bob/env:latest",
			wantName: "env",
			wantTag:  "latest",
		},
		{
			link:    "no-tag-at-all",
			wantErr: true,
		},
		{
			link:    "only/one:segment-missing-registry",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		name, tag, err := GetImageNameAndTag(tt.link)
		if tt.wantErr {
			assert.Error(t, err, tt.link)
			continue
		}
		assert.NoError(t, err, tt.link)
		assert.Equal(t, tt.wantName, name)
		assert.Equal(t, tt.wantTag, tag)
	}
}
