package identity

// Headers returns the request headers a browser with the given user agent
// sends for a top-level navigation.
func Headers(userAgent string) map[string]string {
	h := map[string]string{
		"User-Agent":                userAgent,
		"Accept-Language":           "en-US,en;q=0.9",
		"Accept-Encoding":           "gzip, deflate, br",
		"Referer":                   "https://www.google.com/",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}

	switch FamilyOf(userAgent) {
	case FamilyChromium:
		h["Accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
		h["sec-fetch-dest"] = "document"
		h["sec-fetch-mode"] = "navigate"
		h["sec-fetch-site"] = "cross-site"
		h["sec-fetch-user"] = "?1"
	case FamilyFirefox:
		h["Accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
		h["TE"] = "trailers"
	case FamilySafari:
		h["Accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	}

	return h
}
