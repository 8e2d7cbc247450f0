package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	assert.Equal(t, &Run{DataRoot: "."}, got)
	assert.False(t, got.RemoteData())
}

func TestRemoteData(t *testing.T) {
	tests := []struct {
		name string
		run  *Run
		want bool
	}{
		{name: "nil", run: nil, want: false},
		{name: "dir", run: &Run{DataRoot: "data"}, want: false},
		{name: "url", run: &Run{BaseURL: "https://example.com"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.run.RemoteData())
		})
	}
}

func TestVersionInformationDefaults(t *testing.T) {
	assert.Equal(t, "unknown", VersionInformation.Commit)
	assert.NotEmpty(t, VersionInformation.BuildVersion)
	assert.Equal(t, "refx", CliBinaryName)
}
