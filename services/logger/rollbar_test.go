package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omi-1602/Venz-edu/core"
)

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), core.NewTestConfig())
	logger.Enable(false)

	errBoom := errors.New("boom")
	usr := core.Person{ID: "u1", Name: "A", Email: "a@x.com"}

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{name: "message only", want: []interface{}{"msg"}},
		{name: "error kept", args: []interface{}{errBoom}, want: []interface{}{"msg", errBoom}},
		{name: "user dropped", args: []interface{}{usr, errBoom}, want: []interface{}{"msg", errBoom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.prepare("msg", tt.args))
		})
	}
}

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), core.NewTestConfig())
	logger.Enable(false)

	logger.Warn("mail failed", errors.New("dial tcp: refused"))
	assert.Equal(t, "mail failed\ndial tcp: refused\n", buf.String())
}
