package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Status is a response status code the server knows how to frame.
type Status int

const (
	StatusOK       Status = 200
	StatusSeeOther Status = 303
)

// Text returns the reason phrase for s.
func (s Status) Text() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusSeeOther:
		return "See Other"
	default:
		return ""
	}
}

// Response is built by a handler and framed by a ResponseWriter.
type Response struct {
	Status      Status
	ContentType string
	Body        []byte

	// Location and SetCookie are only emitted for redirects.
	Location  string
	SetCookie string
}

// OK returns a 200 response carrying body.
func OK(contentType string, body []byte) *Response {
	return &Response{Status: StatusOK, ContentType: contentType, Body: body}
}

// Redirect returns a 303 response pointing at location.
func Redirect(location string) *Response {
	return &Response{Status: StatusSeeOther, Location: location}
}

// RedirectWithCookie returns a 303 response that also sets cookie on path /.
func RedirectWithCookie(location, cookie string) *Response {
	return &Response{Status: StatusSeeOther, Location: location, SetCookie: cookie}
}

func (r *Response) validate() error {
	switch r.Status {
	case StatusOK:
		if len(r.Body) > 0 && r.ContentType == "" {
			return ErrMissingContentType
		}
	case StatusSeeOther:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedStatus, int(r.Status))
	}
	return nil
}

// WriteTo serializes r onto w. The Content-Length header is always computed
// from Body, and redirects never carry a body.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}

	var head bytes.Buffer
	head.WriteString("HTTP/1.1 " + strconv.Itoa(int(r.Status)) + " " + r.Status.Text() + "\r\n")

	var body []byte
	switch r.Status {
	case StatusOK:
		body = r.Body
		if r.ContentType != "" {
			head.WriteString("Content-Type: " + r.ContentType + "\r\n")
		}
		head.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\r\n")
	case StatusSeeOther:
		head.WriteString("Location: " + r.Location + "\r\n")
		if r.SetCookie != "" {
			head.WriteString("Set-cookie: " + r.SetCookie + "; Path=/\r\n")
		}
	}
	head.WriteString("\r\n")

	n, err := w.Write(head.Bytes())
	written := int64(n)
	if err != nil || len(body) == 0 {
		return written, err
	}
	n, err = w.Write(body)
	return written + int64(n), err
}

// ResponseWriter is the output sink handed to route handlers. It accepts a
// single response per connection and flushes it immediately.
type ResponseWriter struct {
	w       *bufio.Writer
	sent    bool
	status  Status
	written int64
}

// NewResponseWriter wraps the connection side of w.
func NewResponseWriter(w io.Writer) *ResponseWriter {
	return &ResponseWriter{w: bufio.NewWriter(w)}
}

// Send frames resp and flushes it. Validation failures are returned before
// any byte reaches the stream; stream failures come back as *IOError and the
// remaining writes are abandoned.
func (rw *ResponseWriter) Send(resp *Response) error {
	if rw.sent {
		return ErrResponseSent
	}
	if resp == nil {
		return fmt.Errorf("%w: nil response", ErrUnsupportedStatus)
	}
	if err := resp.validate(); err != nil {
		return err
	}
	rw.sent = true
	rw.status = resp.Status

	n, err := resp.WriteTo(rw.w)
	rw.written = n
	if err != nil {
		return newIOError("write response", err)
	}
	if err := rw.w.Flush(); err != nil {
		return newIOError("flush response", err)
	}
	return nil
}

// Sent reports whether a response has been handed to the stream.
func (rw *ResponseWriter) Sent() bool {
	return rw.sent
}

// Status returns the status of the sent response, or zero.
func (rw *ResponseWriter) Status() Status {
	return rw.status
}

// Written returns the number of response bytes handed to the buffer.
func (rw *ResponseWriter) Written() int64 {
	return rw.written
}
