package response

import "net/url"

// escapeFilename 按 RFC 5987 编码下载文件名（url.QueryEscape 会把空格编码为 +，此处还原为 %20）
func escapeFilename(name string) string {
	escaped := url.QueryEscape(name)
	out := make([]byte, 0, len(escaped))
	for i := 0; i < len(escaped); i++ {
		if escaped[i] == '+' {
			out = append(out, "%20"...)
			continue
		}
		out = append(out, escaped[i])
	}
	return string(out)
}
