// Package protocol implements the wire half of the web server: it reads an
// HTTP/1.1 request off a connection, decodes url-encoded form bodies, and
// frames responses back onto the connection.
//
// Only the subset the server needs is supported. A request is a request
// line, header lines terminated by an empty line, and an optional body of
// exactly Content-Length bytes. A response is either a 200 carrying a body
// or a 303 redirect carrying a Location and an optional cookie. Keep-alive,
// chunked transfer coding and TLS are not handled; one request is served
// per connection.
package protocol
