package config

import (
	"time"

	"github.com/mf010/dynamic-website-sub000/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Media     Media
	Security  Security
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	CacheEnabled        bool    // true = enable settings cache, false = read through to the database
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}

// Media implements uploaded file storage settings.
type Media struct {
	Root          string // root directory for stored uploads
	BaseURL       string // public base url under which stored uploads are served
	MaxUploadSize int64  // upload size ceiling in bytes
}

// Security implements brute-force counter settings.
type Security struct {
	MaxFailedAttempts int // failed attempts before an IP block is recorded
	AttemptWindow     int // failed attempt counter expiry in minutes
	BlockDuration     int // IP block expiry in minutes
}
