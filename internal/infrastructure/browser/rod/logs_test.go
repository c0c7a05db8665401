package rod

import (
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/ysmood/gson"

	"ui-template/internal/domain/entity"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, entity.LogLevelSevere, logLevel("error"))
	assert.Equal(t, entity.LogLevelWarning, logLevel("warning"))
	assert.Equal(t, entity.LogLevelVerbose, logLevel("debug"))
	assert.Equal(t, entity.LogLevelInfo, logLevel("log"))
	assert.Equal(t, entity.LogLevelInfo, logLevel("info"))
}

func TestConsoleText(t *testing.T) {
	args := []*proto.RuntimeRemoteObject{
		{Type: proto.RuntimeRemoteObjectTypeString, Value: gson.New("cart")},
		{Type: proto.RuntimeRemoteObjectTypeNumber, Value: gson.New(3)},
		{Type: proto.RuntimeRemoteObjectTypeObject, Description: "HTMLDivElement"},
		nil,
		{Type: proto.RuntimeRemoteObjectTypeUndefined},
	}

	assert.Equal(t, "cart 3 HTMLDivElement undefined", consoleText(args))
}

func TestSession_AddLogKeepsNewest(t *testing.T) {
	s := &Session{}
	for i := 0; i < maxLogEntries+10; i++ {
		s.addLog(entity.LogEntry{Message: "m"})
	}

	logs := s.Logs()
	assert.Len(t, logs, maxLogEntries)
	assert.False(t, logs[0].Time.IsZero())
	assert.Empty(t, s.Logs(), "reading drains the buffer")
}

func TestTimestampOf(t *testing.T) {
	want := time.Date(2024, 3, 9, 7, 5, 1, 250*int(time.Millisecond), time.UTC)
	ms := proto.RuntimeTimestamp(float64(want.UnixMilli()))

	assert.True(t, want.Equal(timestampOf(ms)), "got %s", timestampOf(ms))
	assert.True(t, timestampOf(0).IsZero())
}
