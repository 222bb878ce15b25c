package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// FileField is one uploaded file of a multipart submission.
type FileField struct {
	Name        string
	ContentType string
	Data        []byte
}

// Payload is a create/update body. It is sent as JSON unless Files is
// non-empty, in which case every field travels as a multipart form part.
type Payload struct {
	Fields map[string]string
	Files  map[string]FileField
}

// Encode returns the request body and its content type.
func (p Payload) Encode() ([]byte, string, error) {
	if len(p.Files) == 0 {
		fields := p.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		body, err := json.Marshal(fields)
		if err != nil {
			return nil, "", fmt.Errorf("transport: encode payload: %w", err)
		}
		return body, "application/json", nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, key := range slices.Sorted(maps.Keys(p.Fields)) {
		if err := writer.WriteField(key, p.Fields[key]); err != nil {
			return nil, "", fmt.Errorf("transport: encode field %s: %w", key, err)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(p.Files)) {
		file := p.Files[key]
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, key, fileName(key, file)))
		contentType := strings.TrimSpace(file.ContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("transport: encode file %s: %w", key, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("transport: encode file %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("transport: close multipart body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func fileName(key string, file FileField) string {
	if name := strings.TrimSpace(file.Name); name != "" {
		return name
	}
	return key
}
