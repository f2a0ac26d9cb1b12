package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{name: "operation", attr: Operation("resolve"), key: KeyOperation, want: "resolve"},
		{name: "tool", attr: Tool("read_file"), key: KeyTool, want: "read_file"},
		{name: "path", attr: Path("src/main.go"), key: KeyPath, want: "src/main.go"},
		{name: "root", attr: Root("/home/user/project"), key: KeyRoot, want: "/home/user/project"},
		{name: "status", attr: Status(StatusSuccess), key: KeyStatus, want: "success"},
		{name: "mode", attr: Mode("parallel"), key: KeyMode, want: "parallel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.String())
		})
	}
}

func TestErrNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation done", Err(nil))
	assert.NotContains(t, buf.String(), KeyError+"=")
}

func TestErrNonNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation failed", Err(assert.AnError))
	assert.Contains(t, buf.String(), KeyError+"=")
	assert.True(t, strings.Contains(buf.String(), "assert.AnError"))
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithTool(logger, "batch_tools").Info("dispatched")
	assert.Contains(t, buf.String(), "tool=batch_tools")

	buf.Reset()
	WithOperation(logger, "set_root").Info("updated")
	assert.Contains(t, buf.String(), "operation=set_root")
}
