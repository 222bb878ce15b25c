package testsupport

import "fmt"

// NumberedRecords builds n records whose title is "<prefix> NN".
func NumberedRecords(prefix string, n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{
			"title":       fmt.Sprintf("%s %02d", prefix, i+1),
			"description": fmt.Sprintf("Description of %s %02d", prefix, i+1),
		}
	}
	return out
}
