package cypher

import (
	"bytes"
	"io"
	"mime/multipart"
)

// formPart is one part of a multipart/form-data body. Parts without a
// filename are written as plain form fields.
type formPart struct {
	name     string
	filename string
	content  []byte
}

// encodeForm writes parts in order and returns the body with its content type.
func encodeForm(parts ...formPart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, p := range parts {
		var (
			w   io.Writer
			err error
		)
		if p.filename == "" {
			w, err = mw.CreateFormField(p.name)
		} else {
			w, err = mw.CreateFormFile(p.name, p.filename)
		}
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(p.content); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}
