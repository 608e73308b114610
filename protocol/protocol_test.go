package protocol

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoResult []byte

func (r echoResult) Record() []string { return []string{HexBytes(r).String()} }
func (r echoResult) String() string   { return "{" + HexBytes(r).String() + "}" }
func (r echoResult) Output() []byte   { return r }

type echoCodec struct {
	p Params
}

func (echoCodec) Name() string { return "echo" }

func (echoCodec) Apply(data []byte) (Result, error) {
	return echoResult(data), nil
}

func (c echoCodec) Fields() logrus.Fields {
	return logrus.Fields{"clock": c.p.Clock}
}

func init() {
	RegisterCodec("echo", func(p Params) Codec { return echoCodec{p} })
}

func TestRegistry(t *testing.T) {
	c, err := NewCodec("echo", Params{Clock: 0x60})
	require.NoError(t, err)
	assert.Equal(t, "echo", c.Name())
	assert.Equal(t, logrus.Fields{"clock": uint32(0x60)}, c.Fields())
	assert.Contains(t, Names(), "echo")

	_, err = NewCodec("nope", Params{})
	assert.Error(t, err)
}

func TestRegisterDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterCodec("echo", func(p Params) Codec { return echoCodec{p} })
	})
	assert.Panics(t, func() {
		RegisterCodec("nil", nil)
	})
}

func TestHexBytes(t *testing.T) {
	assert.Equal(t, "6D D2", HexBytes{0x6D, 0xD2}.String())
	assert.Equal(t, "00 0F", HexBytes{0x00, 0x0F}.String())
	assert.Equal(t, "", HexBytes{}.String())
	assert.Equal(t, "", HexBytes(nil).String())

	text, err := HexBytes{0x6D, 0xD2}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "6DD2", string(text))
}

func TestLogMessage(t *testing.T) {
	stamp, err := NewTimeFormat("%Y")
	require.NoError(t, err)

	msg := NewLogMessage(stamp, "echo", []byte{0x01}, echoResult{0x01, 0x02})
	msg.Time = time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "{Time:2015 echo:{01 02}}", msg.String())
	assert.True(t, msg.Matched())

	msg.Expect = HexBytes{0x01, 0x03}
	assert.False(t, msg.Matched())
	assert.Equal(t, "{Time:2015 echo:{01 02} Expect:01 03 Match:false}", msg.String())

	r := msg.Record()
	assert.Equal(t, []string{"2015-06-01T00:00:00Z", "echo", "01", "01 02", "0103", "false"}, r)

	assert.Equal(t, []string{"time", "mode", "input", "expect", "match"}, msg.Header())

	buf, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(buf), `"Input":"01"`), string(buf))
	assert.True(t, strings.Contains(string(buf), `"Expect":"0103"`), string(buf))
}

func TestDefaultTimeFormat(t *testing.T) {
	msg := NewLogMessage(nil, "echo", nil, echoResult{})
	msg.Time = time.Date(2015, 6, 1, 2, 3, 4, 5e6, time.UTC)

	assert.Equal(t, "{Time:2015-06-01T02:03:04.005 echo:{}}", msg.String())
}

type modeFilter string

func (m modeFilter) Filter(msg LogMessage) bool {
	return msg.Mode == string(m)
}

func TestFilterChain(t *testing.T) {
	var fc FilterChain
	msg := LogMessage{Mode: "echo"}
	assert.True(t, fc.Match(msg))

	fc.Add(modeFilter("echo"))
	assert.True(t, fc.Match(msg))

	fc.Add(modeFilter("crc"))
	assert.False(t, fc.Match(msg))
}
