// Package web holds the browser client served at the root path.
package web

import _ "embed"

//go:embed index.html
var Index []byte
