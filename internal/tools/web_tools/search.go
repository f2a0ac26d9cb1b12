package web_tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/time/rate"

	"github.com/thuanphamchezzi/skydeckai-code/internal/server"
	"github.com/thuanphamchezzi/skydeckai-code/internal/tools/common"
)

const maxSearchResults = 20

// searchLimiter throttles outbound search requests so repeated tool
// calls do not trip the engines' rate limits.
var searchLimiter = rate.NewLimiter(rate.Every(time.Second), 2)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
}

type searchResult struct {
	Title   string
	Link    string
	Snippet string
}

// searchEngine describes how to query one engine and pull results out
// of its HTML. Selector lists are tried in order until one matches.
type searchEngine struct {
	Name             string
	ID               string
	URL              string
	Params           func(query string, numResults int) url.Values
	Referer          string
	ResultSelectors  []string
	TitleSelectors   []string
	LinkSelectors    []string
	SnippetSelectors []string
	ProcessURL       func(raw string) string
}

var searchEngines = []searchEngine{
	{
		Name: "DuckDuckGo HTML",
		ID:   "duckduckgo",
		URL:  "https://html.duckduckgo.com/html/",
		Params: func(query string, _ int) url.Values {
			return url.Values{"q": {query}}
		},
		Referer:          "https://duckduckgo.com/",
		ResultSelectors:  []string{".web-result", ".result:not(.result--ad)", ".results_links:not(.result--ad)", ".result"},
		TitleSelectors:   []string{".result__title", ".result__a", "h2", ".result__title a"},
		LinkSelectors:    []string{"a.result__a", "a.result__url", ".result__title a", "a[href^='http']"},
		SnippetSelectors: []string{".result__snippet", ".result__snippet p", ".result__desc", ".result__body", ".snippet"},
		ProcessURL:       processDuckDuckGoURL,
	},
	{
		Name: "Bing",
		ID:   "bing",
		URL:  "https://www.bing.com/search",
		Params: func(query string, numResults int) url.Values {
			return url.Values{"q": {query}, "count": {fmt.Sprintf("%d", numResults)}}
		},
		Referer:          "https://www.bing.com/",
		ResultSelectors:  []string{".b_algo", "li.b_algo", ".b_results > li:not(.b_ad)", "ol#b_results > li"},
		TitleSelectors:   []string{"h2", ".b_title", "h2 a", "a"},
		LinkSelectors:    []string{"h2 a", "a.tilk", "cite", ".b_attribution > cite", "a[href^='http']"},
		SnippetSelectors: []string{".b_caption p", ".b_snippet", ".b_richcard", ".b_caption", ".b_algoSlug"},
		ProcessURL:       processBingURL,
	},
}

func handleWebSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, err := common.StringArg(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if query == "" {
		return mcp.NewToolResultError("search query must be provided"), nil
	}
	numResults, err := common.OptionalIntArg(args, "num_results", 10)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if numResults > maxSearchResults {
		numResults = maxSearchResults
	}
	if numResults < 1 {
		numResults = 1
	}
	convertMarkdown, err := common.OptionalBoolArg(args, "convert_html_to_markdown", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	engineID, err := common.OptionalStringArg(args, "search_engine", "auto")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	engineID = strings.ToLower(engineID)

	var warning string
	switch engineID {
	case "auto", "bing", "duckduckgo":
	case "google":
		warning = "Warning: Google search engine is no longer supported due to blocking automated requests. Falling back to 'auto' mode."
		engineID = "auto"
	default:
		warning = fmt.Sprintf("Warning: Unsupported search engine '%s'. Valid options are: auto, bing, duckduckgo. Falling back to 'auto' mode.", engineID)
		engineID = "auto"
	}

	engines := searchEngines
	if engineID != "auto" {
		for _, engine := range searchEngines {
			if engine.ID == engineID {
				engines = []searchEngine{engine}
				break
			}
		}
	}

	userAgent := userAgents[rand.Intn(len(userAgents))]
	seen := map[string]bool{}

	for _, engine := range engines {
		if limitErr := searchLimiter.Wait(ctx); limitErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error performing web search: %v", limitErr)), nil
		}
		results, searchErr := querySearchEngine(ctx, engine, query, numResults, userAgent, seen)
		if searchErr != nil || len(results) == 0 {
			continue
		}
		return mcp.NewToolResultText(formatSearchResults(query, results, convertMarkdown, engine.Name, warning)), nil
	}

	return mcp.NewToolResultText(searchFallback(query, warning)), nil
}

func querySearchEngine(ctx context.Context, engine searchEngine, query string, numResults int, userAgent string, seen map[string]bool) ([]searchResult, error) {
	reqURL := engine.URL + "?" + engine.Params(query, numResults).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", engine.Referer)
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code %d", engine.Name, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return extractResults(doc, engine, numResults, seen), nil
}

func extractResults(doc *goquery.Document, engine searchEngine, numResults int, seen map[string]bool) []searchResult {
	var elements *goquery.Selection
	for _, selector := range engine.ResultSelectors {
		elements = doc.Find(selector)
		if elements.Length() > 0 {
			break
		}
	}
	if elements == nil || elements.Length() == 0 {
		return nil
	}

	var results []searchResult
	elements.EachWithBreak(func(_ int, result *goquery.Selection) bool {
		if len(results) >= numResults {
			return false
		}

		title := firstText(result, engine.TitleSelectors)
		link := firstHref(result, engine.LinkSelectors)
		snippet := firstText(result, engine.SnippetSelectors)

		if link == "" || title == "" {
			// Last resort, any anchor with meaningful text
			result.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
				text := strings.TrimSpace(anchor.Text())
				if href, ok := anchor.Attr("href"); ok && len(text) > 3 {
					link = href
					title = text
					return false
				}
				return true
			})
		}
		if link == "" || title == "" {
			return true
		}

		link = engine.ProcessURL(link)
		if !strings.HasPrefix(link, "http") {
			return true
		}

		canonical := strings.TrimRight(strings.SplitN(link, "?", 2)[0], "/")
		if seen[canonical] {
			return true
		}
		seen[canonical] = true

		if snippet == "" {
			snippet = "No description available"
		}
		results = append(results, searchResult{Title: title, Link: link, Snippet: snippet})
		return true
	})
	return results
}

func firstText(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if found := sel.Find(selector).First(); found.Length() > 0 {
			if text := strings.TrimSpace(found.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

func firstHref(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if found := sel.Find(selector).First(); found.Length() > 0 {
			if href, ok := found.Attr("href"); ok && href != "" {
				return href
			}
		}
	}
	return ""
}

// processDuckDuckGoURL unwraps DuckDuckGo redirect URLs to the target.
func processDuckDuckGoURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()

	if target := query.Get("uddg"); target != "" {
		return target
	}
	if strings.Contains(parsed.Path, "y.js") {
		if domain := query.Get("ad_domain"); domain != "" {
			return "https://" + domain
		}
		for _, param := range []string{"du", "u", "l"} {
			if target := query.Get(param); target != "" {
				return target
			}
		}
	}
	return raw
}

// processBingURL unwraps Bing /ck/a redirect URLs, which carry the real
// target base64 encoded in the 'u' parameter.
func processBingURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.Host != "www.bing.com" || parsed.Path != "/ck/a" {
		return raw
	}
	query := parsed.Query()
	if encoded := query.Get("u"); encoded != "" {
		if decoded, decErr := base64.StdEncoding.DecodeString(encoded); decErr == nil {
			return string(decoded)
		}
		return encoded
	}
	for _, param := range []string{"purl", "r"} {
		if target := query.Get(param); target != "" {
			return target
		}
	}
	return raw
}

func formatSearchResults(query string, results []searchResult, convertMarkdown bool, engineName, warning string) string {
	var sb strings.Builder
	sb.WriteString("# Web Search Results\n\n")
	sb.WriteString(fmt.Sprintf("**Query:** %s\n\n", query))
	if warning != "" {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", warning))
	}
	if engineName != "" {
		sb.WriteString(fmt.Sprintf("**Source:** %s\n\n", engineName))
	}

	var converter *htmltomarkdown.Converter
	if convertMarkdown {
		converter = htmltomarkdown.NewConverter("", true, nil)
	}

	for i, result := range results {
		title := result.Title
		snippet := result.Snippet
		if converter != nil {
			if strings.Contains(title, "<") {
				if md, err := converter.ConvertString(title); err == nil {
					title = strings.TrimSpace(md)
				}
			}
			if strings.Contains(snippet, "<") {
				if md, err := converter.ConvertString(snippet); err == nil {
					snippet = strings.TrimSpace(md)
				}
			}
		}
		sb.WriteString(fmt.Sprintf("## %d. %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("**URL:** %s\n\n", result.Link))
		sb.WriteString(fmt.Sprintf("%s\n\n---\n\n", snippet))
	}
	return sb.String()
}

func searchFallback(query, warning string) string {
	var sb strings.Builder
	sb.WriteString("# Web Search Results\n\n")
	sb.WriteString(fmt.Sprintf("**Query:** %s\n\n", query))
	if warning != "" {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", warning))
	}
	sb.WriteString("I couldn't retrieve search results at this time.\n\n")
	sb.WriteString("## Why search might be unavailable\n\n")
	sb.WriteString("Web search APIs often have restrictions on automated access, which can cause searches to fail. When this happens, it's better to:\n\n")
	sb.WriteString("1. Try a different search engine (Bing or DuckDuckGo which are more reliable for automated access)\n")
	sb.WriteString("2. Visit specific authoritative sites directly\n")
	sb.WriteString("3. Try the search again later, or with different terms\n")
	return sb.String()
}
