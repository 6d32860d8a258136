package agent

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

const duckduckgoURL = "https://api.duckduckgo.com/"

var searchClient = &http.Client{Timeout: 10 * time.Second}

// WebSearchInput is the input for the WebSearch tool.
type WebSearchInput struct {
	Query string `json:"query" description:"The search query, e.g. a name, place, or term mentioned in the video"`
}

// WebSearchOutput is the result of a web search.
type WebSearchOutput struct {
	Abstract string   `json:"abstract,omitempty"`
	Results  []string `json:"results,omitempty"`
	Message  string   `json:"message,omitempty"`
}

type duckduckgoResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

func buildSummarizerTools() ([]tool.Tool, error) {
	webSearch, err := functiontool.New(functiontool.Config{
		Name:        "WebSearch",
		Description: "Look up additional context for something mentioned in the video. Use sparingly; prefer what the video itself shows.",
	}, func(ctx tool.Context, args WebSearchInput) (WebSearchOutput, error) {
		query := strings.TrimSpace(args.Query)
		if query == "" {
			return WebSearchOutput{Message: "query is required"}, nil
		}
		return searchWeb(query)
	})
	if err != nil {
		return nil, err
	}

	return []tool.Tool{webSearch}, nil
}

func searchWeb(query string) (WebSearchOutput, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("no_html", "1")
	params.Add("skip_disambig", "1")

	req, err := http.NewRequest(http.MethodGet, duckduckgoURL+"?"+params.Encode(), nil)
	if err != nil {
		return WebSearchOutput{}, err
	}

	resp, err := searchClient.Do(req)
	if err != nil {
		return WebSearchOutput{Message: "search unavailable: " + err.Error()}, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return WebSearchOutput{Message: fmt.Sprintf("search unavailable (status %d)", resp.StatusCode)}, nil
	}

	var raw duckduckgoResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return WebSearchOutput{Message: "search returned an unreadable response"}, nil
	}

	out := WebSearchOutput{Abstract: raw.AbstractText}
	for _, topic := range raw.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		out.Results = append(out.Results, topic.Text)
		if len(out.Results) == 5 {
			break
		}
	}

	if out.Abstract == "" && len(out.Results) == 0 {
		out.Message = "no results found"
	}
	return out, nil
}
