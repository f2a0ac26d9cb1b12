// Package web_tools implements the web fetch and web search tools.
// Fetched HTML is converted to markdown, and searches scrape Bing and
// DuckDuckGo result pages with a shared rate limit.
package web_tools
