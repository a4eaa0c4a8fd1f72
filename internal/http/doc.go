// Package http dispatches parsed requests to route handlers and runs the
// connection loop that feeds them.
//
// The route table is keyed by the exact concatenation of method and target:
//   - POST /user/create: registers a user from the form fields userId,
//     password, name and email (email is percent-decoded), then redirects to
//     /index.html.
//   - POST /user/login: authenticates userId/password. Success redirects to
//     /index.html with Set-cookie logined=true; failure redirects to
//     /user/login_failed.html with logined=false.
//   - GET /user/list.html: protected by the AccessGate; renders every stored
//     user into the ${userList} placeholder of the template.
//
// Any other request is answered by the StaticResolver, which serves a file
// under the document root or the "Hello World" fallback payload.
package http
