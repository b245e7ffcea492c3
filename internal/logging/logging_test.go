// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		json      bool
		wantDebug bool
	}{
		{name: "console info", wantDebug: false},
		{name: "console debug", verbose: true, wantDebug: true},
		{name: "json info", json: true, wantDebug: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.verbose, tt.json)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, log.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
