package rest

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/restforge/rest-sdk-go/sdkerr"
	"github.com/restforge/rest-sdk-go/transport"
)

// The multipart layout is a wire contract with the receiving API: a fixed
// boundary, the JSON part first and declared as the start part, then file
// parts tagged with sequential Content-IDs.
const (
	multipartBoundary    = "foo"
	startPartID          = "<startpart>"
	startPartName        = "root-fields"
	multipartContentType = `multipart/form-data; type="application/json"; ` +
		`start="` + startPartID + `"; boundary="` + multipartBoundary + `"`
)

// PostMultipart sends a multipart POST whose first part is the given JSON
// document and whose remaining parts are the named files.
//
// File parts carry Content-ID <fileattachmentN> (N from 0) and a
// Content-Location equal to the file name; each file's content type is
// inferred from its content, then from its name, then defaulted to a
// generic binary type. The Content-Type header installed for the call is
// set through the builder and so persists on the instance.
func (c *Client) PostMultipart(ctx context.Context, jsonPart []byte, filenames ...string) (*Response, error) {
	const op = "Client.PostMultipart"

	body, err := buildMultipartBody(jsonPart, filenames)
	if err != nil {
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp(op).
			WithKind(sdkerr.ErrRequestFailed).
			WithCause(err)
	}

	c.SetHeader("Content-Type", multipartContentType)

	req := &transport.Request{
		Method:  http.MethodPost,
		FullURL: c.cfg.URL,
		Headers: c.headerValues(),
		Body:    body,
	}
	return c.do(ctx, op, req)
}

func buildMultipartBody(jsonPart []byte, filenames []string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.SetBoundary(multipartBoundary); err != nil {
		return nil, err
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, startPartName))
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Content-ID", startPartID)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(jsonPart); err != nil {
		return nil, err
	}

	for i, fname := range filenames {
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, err
		}
		base := filepath.Base(fname)

		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, base, base))
		hdr.Set("Content-Type", detectContentType(data, fname))
		hdr.Set("Content-ID", fmt.Sprintf("<fileattachment%d>", i))
		hdr.Set("Content-Location", base)
		part, err := w.CreatePart(hdr)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

const defaultContentType = "application/octet-stream"

// Content-type inference tries each probe in order and the first
// non-empty answer wins. The order matters on the wire: sniffed content
// beats the filename extension, and the generic binary type is only the
// final fallback.
var contentTypeProbes = []func(data []byte, filename string) string{
	probeContent,
	probeFilename,
}

func detectContentType(data []byte, filename string) string {
	for _, probe := range contentTypeProbes {
		if ct := probe(data, filename); ct != "" {
			return ct
		}
	}
	return defaultContentType
}

func probeContent(data []byte, _ string) string {
	ct := http.DetectContentType(data)
	if ct == defaultContentType {
		// DetectContentType never fails; its fallback answer means
		// the content told us nothing.
		return ""
	}
	return ct
}

func probeFilename(_ []byte, filename string) string {
	return mime.TypeByExtension(filepath.Ext(filename))
}
