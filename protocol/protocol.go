package protocol

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bemasher/btbaseband/csv"
	"github.com/lestrrat-go/strftime"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// TimeFormat is the default strftime pattern of plain output.
	TimeFormat = "%Y-%m-%dT%H:%M:%S.%L"
)

var (
	codecMutex sync.Mutex
	codecs     = make(map[string]NewCodecFunc)
)

// Params carries everything a codec may need besides its input bytes.
type Params struct {
	Clock   uint32
	UAP     uint8
	Address uint32
	Bits    int // input bits to encode, 0 for all of them
	Count   int // windows to compute
}

type NewCodecFunc func(Params) Codec

// Given a name and a codec constructor, register a codec for use. Codecs
// register themselves from init:
//
//	protocol.RegisterCodec("whiten", NewWhitenCodec)
func RegisterCodec(name string, codecFn NewCodecFunc) {
	codecMutex.Lock()
	defer codecMutex.Unlock()

	if codecFn == nil {
		panic("codec: new codec func is nil")
	}
	if _, dup := codecs[name]; dup {
		panic(fmt.Sprintf("codec: codec already registered (%s)", name))
	}
	codecs[name] = codecFn
}

// Given a name and parameters, lookup the codec and make a new one.
func NewCodec(name string, p Params) (Codec, error) {
	codecMutex.Lock()
	defer codecMutex.Unlock()

	if codecFn, exists := codecs[name]; exists {
		return codecFn(p), nil
	}
	return nil, errors.Errorf("invalid mode: %q", name)
}

// Names lists the registered codecs in order.
func Names() (names []string) {
	codecMutex.Lock()
	defer codecMutex.Unlock()

	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)

	return
}

// A Codec applies one baseband transform to an input.
type Codec interface {
	Name() string
	Apply([]byte) (Result, error)
	Fields() logrus.Fields
}

// A Result is the outcome of one codec application.
type Result interface {
	csv.Recorder
	fmt.Stringer

	// Output is the value compared against expected test vectors.
	Output() []byte
}

// HexBytes prints as space separated hex pairs.
type HexBytes []byte

func (b HexBytes) String() string {
	return fmt.Sprintf("% X", []byte(b))
}

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(hex.EncodeToString(b))), nil
}

// A LogMessage associates a result with a point in time, the codec and the
// input that produced it.
type LogMessage struct {
	Time   time.Time `xml:",attr"`
	Mode   string    `xml:",attr"`
	Input  HexBytes  `xml:",attr"`
	Expect HexBytes  `xml:",attr,omitempty" json:",omitempty"`
	Result

	stamp *strftime.Strftime
}

// NewLogMessage stamps res with the current time. A nil stamp formats times
// with TimeFormat.
func NewLogMessage(stamp *strftime.Strftime, mode string, input []byte, res Result) LogMessage {
	return LogMessage{
		Time:   time.Now(),
		Mode:   mode,
		Input:  input,
		Result: res,
		stamp:  stamp,
	}
}

// NewTimeFormat compiles a strftime pattern, %L is milliseconds.
func NewTimeFormat(pattern string) (*strftime.Strftime, error) {
	f, err := strftime.New(pattern, strftime.WithMilliseconds('L'))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timestamp format %q", pattern)
	}
	return f, nil
}

func (msg LogMessage) timestamp() string {
	if msg.stamp == nil {
		f, _ := NewTimeFormat(TimeFormat)
		return f.FormatString(msg.Time)
	}
	return msg.stamp.FormatString(msg.Time)
}

// Matched reports whether the output equals the expected vector. Messages
// without one always match.
func (msg LogMessage) Matched() bool {
	if msg.Expect == nil {
		return true
	}
	return bytes.Equal(msg.Output(), msg.Expect)
}

func (msg LogMessage) String() string {
	if msg.Expect != nil {
		return fmt.Sprintf("{Time:%s %s:%s Expect:%s Match:%t}",
			msg.timestamp(), msg.Mode, msg.Result, msg.Expect, msg.Matched(),
		)
	}
	return fmt.Sprintf("{Time:%s %s:%s}", msg.timestamp(), msg.Mode, msg.Result)
}

func (msg LogMessage) Record() (r []string) {
	r = append(r, msg.Time.Format(time.RFC3339Nano))
	r = append(r, msg.Mode)
	r = append(r, hex.EncodeToString(msg.Input))
	r = append(r, msg.Result.Record()...)
	if msg.Expect != nil {
		r = append(r, hex.EncodeToString(msg.Expect), strconv.FormatBool(msg.Matched()))
	}
	return r
}

// Header names the fields of Record. Result fields are named when the
// result is a csv.Headerer.
func (msg LogMessage) Header() (h []string) {
	h = append(h, "time", "mode", "input")
	if r, ok := msg.Result.(csv.Headerer); ok {
		h = append(h, r.Header()...)
	}
	if msg.Expect != nil {
		h = append(h, "expect", "match")
	}
	return h
}

// A FilterChain takes a list of filters and applies them iteratively to
// messages sent through the chain.
type FilterChain []MessageFilter

func (fc *FilterChain) Add(filter MessageFilter) {
	*fc = append(*fc, filter)
}

func (fc FilterChain) Match(msg LogMessage) bool {
	if len(fc) == 0 {
		return true
	}

	for _, filter := range fc {
		if !filter.Filter(msg) {
			return false
		}
	}

	return true
}

type MessageFilter interface {
	Filter(LogMessage) bool
}
