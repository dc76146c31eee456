package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Conte777/newsrelay/config"
	channelentities "github.com/Conte777/newsrelay/internal/domain/channel/entities"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
	"github.com/Conte777/newsrelay/pkg/mapfn"
)

// Client reads channel metadata from the YouTube Data API and items from the channel feed
type Client struct {
	apiKey          string
	baseURL         string
	feedURLTemplate string
	maxResults      int
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	parser          *gofeed.Parser
	logger          zerolog.Logger
}

type thumbnail struct {
	URL string `json:"url"`
}

type snippet struct {
	ChannelID  string `json:"channelId"`
	Title      string `json:"title"`
	Thumbnails struct {
		Default thumbnail `json:"default"`
		Medium  thumbnail `json:"medium"`
		High    thumbnail `json:"high"`
	} `json:"thumbnails"`
}

type listResponse struct {
	Items []struct {
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

// NewClient creates a new YouTube client
func NewClient(cfg *config.YouTubeConfig, logger zerolog.Logger) *Client {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	parser := gofeed.NewParser()
	parser.Client = httpClient

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	client := &Client{
		apiKey:          cfg.APIKey,
		baseURL:         strings.TrimRight(cfg.APIBaseURL, "/"),
		feedURLTemplate: cfg.FeedURLTemplate,
		maxResults:      cfg.MaxResults,
		httpClient:      httpClient,
		rateLimiter:     rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		parser:          parser,
		logger:          logger,
	}

	logger.Info().
		Str("base_url", client.baseURL).
		Str("feed_url_template", client.feedURLTemplate).
		Float64("requests_per_second", rps).
		Msg("YouTube client initialized")

	return client
}

// FetchChannelID searches for the channel and returns its upstream ID
func (c *Client) FetchChannelID(ctx context.Context, channelKey string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", channelKey)
	params.Set("maxResults", strconv.Itoa(max(c.maxResults, 1)))

	var resp listResponse
	if err := c.getJSON(ctx, "search", params, &resp); err != nil {
		return "", err
	}

	for _, item := range resp.Items {
		if item.Snippet.ChannelID != "" {
			c.logger.Debug().
				Str("channel_key", channelKey).
				Str("remote_channel_id", item.Snippet.ChannelID).
				Msg("Resolved channel id")
			return item.Snippet.ChannelID, nil
		}
	}

	return "", pkgerrors.NewUpstreamFetchError(fmt.Sprintf("no channel found for %q", channelKey), nil)
}

// FetchProfile returns the channel's title and avatar
func (c *Client) FetchProfile(ctx context.Context, remoteChannelID string) (*channelentities.ChannelProfile, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", remoteChannelID)

	var resp listResponse
	if err := c.getJSON(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, pkgerrors.NewUpstreamFetchError(fmt.Sprintf("channel %s not found", remoteChannelID), nil)
	}

	s := resp.Items[0].Snippet
	avatar := s.Thumbnails.Default.URL
	if avatar == "" {
		avatar = s.Thumbnails.High.URL
	}
	if avatar == "" {
		avatar = s.Thumbnails.Medium.URL
	}

	return &channelentities.ChannelProfile{
		RemoteChannelID: remoteChannelID,
		DisplayName:     s.Title,
		AvatarURL:       avatar,
	}, nil
}

// FetchNewItems parses the channel feed; entries without a link are dropped
func (c *Client) FetchNewItems(ctx context.Context, remoteChannelID string) ([]dto.FetchedItem, error) {
	feedURL := fmt.Sprintf(c.feedURLTemplate, remoteChannelID)

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, pkgerrors.NewUpstreamFetchError("failed to fetch feed "+feedURL, err)
	}

	withLink := mapfn.FilterSlice(feed.Items, func(item *gofeed.Item) bool {
		return strings.TrimSpace(item.Link) != ""
	})

	items := mapfn.ConvertSlice(withLink, func(item *gofeed.Item) dto.FetchedItem {
		author := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			author = item.Author.Name
		}
		return dto.FetchedItem{
			Title:  strings.TrimSpace(item.Title),
			Link:   strings.TrimSpace(item.Link),
			Author: author,
		}
	})

	c.logger.Debug().
		Str("remote_channel_id", remoteChannelID).
		Int("entries", len(feed.Items)).
		Int("items", len(items)).
		Msg("Fetched channel feed")

	return items, nil
}

func (c *Client) getJSON(ctx context.Context, resource string, params url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return pkgerrors.NewUpstreamFetchError("rate limiter wait failed", err)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// The key stays out of the URL so transport errors never carry it.
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.NewUpstreamFetchError("youtube "+resource+" request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("resource", resource).
			Msg("Unexpected status code from YouTube API")
		return pkgerrors.NewUpstreamFetchError(
			fmt.Sprintf("youtube %s returned status %d", resource, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.NewUpstreamFetchError("failed to decode youtube "+resource+" response", err)
	}

	return nil
}
