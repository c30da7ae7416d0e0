package remote

import (
	_ "embed"
)

//go:embed control.html
var controlPageHTML []byte
