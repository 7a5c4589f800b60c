package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"
)

// Timestamp 宽松解析的 createdAt。
// 无法解析的值保留原文，Time 为零值（排序时视为最早）。
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp 由 time.Time 构造
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp 解析任意常见格式的时间字符串
func ParseTimestamp(s string) Timestamp {
	if s == "" {
		return Timestamp{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return Timestamp{raw: s}
	}
	return Timestamp{Time: t.UTC(), raw: s}
}

// String 原样返回上游字符串，没有原文时输出 RFC3339
func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// 数字时间戳（毫秒）
		var ms int64
		if numErr := json.Unmarshal(data, &ms); numErr != nil {
			return err
		}
		*t = Timestamp{Time: time.UnixMilli(ms).UTC()}
		return nil
	}

	*t = ParseTimestamp(s)
	return nil
}
