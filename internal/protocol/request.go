package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/textproto"
	"strconv"
	"strings"
)

// Request is a parsed HTTP request. It is not modified after ReadRequest
// returns it.
type Request struct {
	Method  string
	Target  string
	Version string

	// Header holds every header line keyed by its trimmed name as received.
	Header map[string]string

	Host          string
	Connection    string
	ContentType   string
	Accept        string
	ContentLength int
	Cookie        string

	// Body is the decoded form body. It is empty, never nil, when
	// ContentLength is zero.
	Body Form
}

// ReadRequest reads one request from r. Header lines are accumulated until
// the first empty line; a peer that never sends one blocks the read. When
// Content-Length is positive exactly that many bytes are consumed as the body.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	lines, err := readHeaderBlock(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrMalformedRequestLine
	}

	req := &Request{
		Header: make(map[string]string, len(lines)-1),
		Body:   make(Form),
	}
	if err := req.parseRequestLine(lines[0]); err != nil {
		return nil, err
	}

	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		req.Header[name] = value
		req.bindHeader(name, value)
	}

	if req.ContentLength > 0 {
		var body bytes.Buffer
		if _, err := io.CopyN(&body, r, int64(req.ContentLength)); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, newIOError("read body", err)
		}
		req.Body = ParseForm(body.String())
	}

	return req, nil
}

func readHeaderBlock(r *bufio.Reader) ([]string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, newIOError("read header", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && len(lines) == 0 {
				return nil, newIOError("read header", err)
			}
			return lines, nil
		}
		lines = append(lines, line)
		if err != nil {
			// The peer closed the stream without the terminating empty line.
			return lines, nil
		}
	}
}

func (req *Request) parseRequestLine(line string) error {
	tokens := strings.Split(line, " ")
	if len(tokens) < 3 {
		return ErrMalformedRequestLine
	}
	req.Method = tokens[0]
	req.Target = tokens[1]
	req.Version = tokens[2]
	return nil
}

// bindHeader copies the headers the server understands into typed fields.
// Anything else is left in Header only.
func (req *Request) bindHeader(name, value string) {
	switch textproto.CanonicalMIMEHeaderKey(name) {
	case "Host":
		req.Host = value
	case "Connection":
		req.Connection = value
	case "Content-Type":
		req.ContentType = value
	case "Accept":
		req.Accept = value
	case "Cookie":
		req.Cookie = value
	case "Content-Length":
		req.ContentLength = parseContentLength(value)
	}
}

func parseContentLength(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
