// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/pdiddy/autosurvey/internal/httputil"
)

func TestMain(m *testing.M) {
	backoffBase = time.Millisecond
	httputil.RetryBaseDelay = time.Millisecond
	goleak.VerifyTestMain(m)
}
