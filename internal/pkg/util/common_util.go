package util

import (
	"io"
	"net/http"
	"regexp"
	"strings"
)

var mentionRegex = regexp.MustCompile(`@(\S+)`)

// ExtractMentions 提取去重后的 @ 用户名列表
func ExtractMentions(rawContent string) []string {
	matches := mentionRegex.FindAllStringSubmatch(rawContent, -1)

	nameSet := make(map[string]struct{})
	var names []string

	for _, m := range matches {
		if len(m) > 1 {
			name := strings.Trim(m[1], ".,，。!?！？")
			if name == "" {
				continue
			}
			if _, exists := nameSet[name]; !exists {
				nameSet[name] = struct{}{}
				names = append(names, name)
			}
		}
	}

	return names
}

// GetSafeContentType 基于文件头嗅探真实类型，不信任客户端上报
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}
