package log_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/griefbot/memeforge/pkg/api"
	"github.com/griefbot/memeforge/pkg/log"
)

type errStub string

func TestRunID(t *testing.T) {
	attr := log.RunID(api.RunID("run-123"))
	assertAttrEqual(t, attr, "run_id", "run-123")
}

func TestStepName(t *testing.T) {
	attr := log.StepName(api.Name("render-meme"))
	assertAttrEqual(t, attr, "step", "render-meme")
}

func TestPipeline(t *testing.T) {
	attr := log.Pipeline(api.Name("meme-generation"))
	assertAttrEqual(t, attr, "pipeline", "meme-generation")
}

func TestReason(t *testing.T) {
	attr := log.Reason(api.ReasonExecution)
	assertAttrEqual(t, attr, "reason", "execution-error")
}

func TestError(t *testing.T) {
	attr := log.Error(nil)
	assertAttrEqual(t, attr, "error", "")

	attr = log.Error(errStub("boom"))
	assertAttrEqual(t, attr, "error", "boom")
}

func TestErrorString(t *testing.T) {
	attr := log.ErrorString("badness")
	assertAttrEqual(t, attr, "error", "badness")
}

func (e errStub) Error() string { return string(e) }

func assertAttrEqual(t *testing.T, attr slog.Attr, key, value string) {
	t.Helper()
	assert.Equal(t, key, attr.Key)
	assert.Equal(t, value, attr.Value.String())
}
