package handler

import (
	"net/http"
	"path/filepath"
)

// FaviconFiles are the root-level icon paths browsers request without being
// told to. Each is served from the favicon subdirectory of the static dir.
var FaviconFiles = []string{
	"android-chrome-192x192.png",
	"android-chrome-512x512.png",
	"apple-touch-icon.png",
	"browserconfig.xml",
	"favicon.ico",
	"favicon-16x16.png",
	"favicon-32x32.png",
	"mstile-150x150.png",
	"safari-pinned-tab.svg",
	"site.webmanifest",
}

// FaviconHandler serves one favicon file from disk.
func FaviconHandler(staticDir, name string) http.HandlerFunc {
	path := filepath.Join(staticDir, "favicon", name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}
