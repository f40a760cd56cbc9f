package feed

import (
	"math/rand"
	"net/http"
)

// feedAccept prefers feed documents but still lets sites serving feeds as html answer
const feedAccept = "application/rss+xml,application/atom+xml,application/rdf+xml;q=0.9,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5"

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,zh-CN;q=0.8",
	"zh-CN,zh;q=0.9,en;q=0.8",
}

// addBrowserHeaders makes feed requests look like a regular reader, some publishers
// (arxiv and nature among them) answer bare clients with 403
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", feedAccept)
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Connection", "keep-alive")
}
