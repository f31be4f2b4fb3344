package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).Level(zerolog.DebugLevel)

	ctx := base.WithContext(context.Background())
	ctx = WithRequestID(ctx, "abc-123")

	err := errors.New("boom")
	func() {
		defer Time(ctx, "unit.test")(&err)
	}()

	out := buf.String()
	assert.Contains(t, out, `"req_id":"abc-123"`)
	assert.Contains(t, out, `"op":"unit.test"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestLoggerWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(context.Background(), zerolog.New(&buf))
	log.Info().Msg("hello")

	assert.NotContains(t, buf.String(), "req_id")
	assert.Equal(t, "", RequestID(context.Background()))
}
