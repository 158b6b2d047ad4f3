package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// PublicLayout is the layout for public site templates.
	PublicLayout = "layouts/public"

	// RootPath is the root path of the route group.
	RootPath = "/"

	// RouterRootPath is the root path within a registered route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
