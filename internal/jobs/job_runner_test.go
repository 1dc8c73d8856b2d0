package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"loaner-backend/internal/config"
)

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(&Services{}, &config.Config{})

	t.Run("Panicking job does not crash the runner", func(t *testing.T) {
		assert.NotPanics(t, func() {
			jr.runWithRecovery("panicking-job", func() {
				panic("boom")
			})
		})
	})

	t.Run("Job body runs", func(t *testing.T) {
		ran := false
		jr.runWithRecovery("noop-job", func() {
			ran = true
		})
		assert.True(t, ran)
	})
}
