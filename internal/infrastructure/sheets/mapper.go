package sheets

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// stripBOM removes a leading UTF-8 byte-order mark. Sheet exports from
// spreadsheet tools routinely carry one, which would otherwise corrupt
// the first header name.
func stripBOM(body []byte) []byte {
	return bytes.TrimPrefix(body, utf8BOM)
}

// cleanRows trims header names and cell values and drops fully-empty
// rows, so downstream alias resolution sees tidy keys
func cleanRows(rows []map[string]string) []map[string]string {
	cleaned := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]string, len(row))
		empty := true
		for header, value := range row {
			header = strings.TrimSpace(header)
			value = strings.TrimSpace(value)
			if header == "" {
				continue
			}
			out[header] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			cleaned = append(cleaned, out)
		}
	}
	return cleaned
}
