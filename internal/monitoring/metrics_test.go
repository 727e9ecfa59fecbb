package monitoring

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector()
	mc.RecordDiscovered(5)
	mc.RecordParsed()
	mc.RecordParsed()
	mc.RecordSkipped()
	mc.RecordParseError()
	mc.RecordPosts(1, 1)

	s := mc.Snapshot()
	assert.Equal(t, int64(5), s.FilesDiscovered)
	assert.Equal(t, int64(2), s.FilesParsed)
	assert.Equal(t, int64(2), s.FilesSkipped, "parse errors count as skipped")
	assert.Equal(t, int64(1), s.ParseErrors)
	assert.Equal(t, int64(2), s.EventsBuilt)
	assert.Equal(t, int64(1), s.PostsOK)
	assert.Equal(t, int64(1), s.PostsFailed)
	assert.GreaterOrEqual(t, s.ElapsedMs, int64(0))
}

func TestSnapshot_LogObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("metrics", Snapshot{FilesDiscovered: 3, PostsFailed: 1}).Msg("done")

	assert.Equal(t, int64(3), gjson.Get(buf.String(), "metrics.files_discovered").Int())
	assert.Equal(t, int64(1), gjson.Get(buf.String(), "metrics.posts_failed").Int())
}
