package handler

const (
	// APIPath is the prefix of all JSON API routes.
	APIPath = "/api"

	// RootPath is the root path of the route tree.
	RootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
