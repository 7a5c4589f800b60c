package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer 去除用户输入中的 HTML 标签，只保留纯文本
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// maxDecodeRounds 实体嵌套编码最多展开的层数
const maxDecodeRounds = 5

// Text 清洗后的纯文本，首尾空白会被去掉。
// 反复执行清洗和实体还原直到结果不再变化，实体编码的标签同样会被去除。
func (s *Sanitizer) Text(in string) string {
	out := in
	for i := 0; i < maxDecodeRounds; i++ {
		next := html.UnescapeString(s.policy.Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	// 仍未稳定时返回转义后的结果
	return strings.TrimSpace(s.policy.Sanitize(out))
}

// Required 清洗后为空时返回 ErrInvalidContent
func (s *Sanitizer) Required(in string) (string, error) {
	out := s.Text(in)
	if out == "" {
		return "", ErrInvalidContent
	}
	return out, nil
}
