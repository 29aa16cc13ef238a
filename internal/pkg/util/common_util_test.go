package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	names := ExtractMentions("今天和 @alice 还有 @bob 去爬山，@alice 拍了照片！")
	assert.Equal(t, []string{"alice", "bob"}, names)
}

func TestExtractMentionsTrimsPunctuation(t *testing.T) {
	names := ExtractMentions("谢谢 @carol，还有 @dave。")
	assert.Equal(t, []string{"carol", "dave"}, names)
}

func TestExtractMentionsEmpty(t *testing.T) {
	assert.Empty(t, ExtractMentions("没有提到任何人"))
	// 纯标点的 @ 会被整体剥掉
	assert.Empty(t, ExtractMentions("@！？"))
}

func TestGetSafeContentType(t *testing.T) {
	// PNG 魔数，后面补零凑够嗅探长度
	payload := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	r := bytes.NewReader(payload)

	ct, err := GetSafeContentType(r)
	assert.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	// 嗅探后读取位置要复位
	pos, _ := r.Seek(0, 1)
	assert.Equal(t, int64(0), pos)
}

func TestGetSafeContentTypeTextFallback(t *testing.T) {
	r := strings.NewReader("just some plain text")
	ct, err := GetSafeContentType(r)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "text/plain"))
}
