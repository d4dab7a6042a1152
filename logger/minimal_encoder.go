package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// minimalEncoder is a compact console encoder for humans reading stderr.
// Format: "13:04:35  WARN  fetch  Upstream request failed  endpoint=data status=503"
// The level is only shown when it is not INFO. Context fields added with With come
// first in key order, then the entry's own fields in call order.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := newMinimalEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := bufferPool.Get()

	line.AppendString(ent.Time.Format("15:04:05"))
	if ent.Level != zapcore.InfoLevel {
		line.AppendString("  ")
		line.AppendString(ent.Level.CapitalString())
	}
	if ent.LoggerName != "" {
		line.AppendString("  ")
		line.AppendString(ent.LoggerName)
	}
	line.AppendString("  ")
	line.AppendString(ent.Message)

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		appendField(line, k, enc.Fields[k])
	}

	for _, f := range fields {
		tmp := zapcore.NewMapObjectEncoder()
		f.AddTo(tmp)
		// Keep the field's own key first; AddTo may also emit companions like "errorVerbose"
		if v, ok := tmp.Fields[f.Key]; ok {
			appendField(line, f.Key, v)
		}
	}

	if ent.Stack != "" && ent.Level >= zapcore.ErrorLevel {
		line.AppendString("\n")
		line.AppendString(ent.Stack)
	}
	line.AppendString("\n")
	return line, nil
}

func appendField(line *buffer.Buffer, key string, value interface{}) {
	if strings.HasSuffix(key, "Verbose") {
		return
	}
	s := fmt.Sprint(value)
	if strings.ContainsAny(s, " \t\n") {
		s = fmt.Sprintf("%q", s)
	}
	line.AppendString("  ")
	line.AppendString(key)
	line.AppendByte('=')
	line.AppendString(s)
}
