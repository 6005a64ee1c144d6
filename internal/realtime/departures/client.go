// Package departures consumes an external GTFS-RT trip updates feed as a live
// departure board for the shared terminal.
package departures

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/railhub/planner/internal/planner"
)

// delayedThreshold is the predicted delay beyond which a departure is
// reported as delayed rather than on time.
const delayedThreshold = 60 * time.Second

// Client fetches live departures for a fixed set of terminal stop ids. Every
// call is a single bounded-timeout fetch; any failure (transport error,
// non-success status, malformed payload) is returned to the caller, who
// decides whether the feed was optional.
type Client struct {
	url     string
	stopIDs []string
	client  *http.Client
}

// NewClient creates a live departures client for the given feed URL and
// terminal stop ids.
func NewClient(url string, stopIDs []string, timeout time.Duration) *Client {
	return &Client{
		url:     url,
		stopIDs: stopIDs,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// TerminalDepartures returns the feed's upcoming departures from the
// terminal, ordered by departure time.
func (c *Client) TerminalDepartures(ctx context.Context) ([]planner.LiveDeparture, error) {
	feed, err := c.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	var result []planner.LiveDeparture
	for _, entity := range feed.Entity {
		tripUpdate := entity.TripUpdate
		if tripUpdate == nil || tripUpdate.Trip == nil {
			continue
		}

		var tripID, routeID string
		if tripUpdate.Trip.TripId != nil {
			tripID = *tripUpdate.Trip.TripId
		}
		if tripUpdate.Trip.RouteId != nil {
			routeID = *tripUpdate.Trip.RouteId
		}

		for _, stu := range tripUpdate.StopTimeUpdate {
			if stu.StopId == nil || !c.isTerminalStop(*stu.StopId) {
				continue
			}
			if stu.Departure == nil {
				continue
			}

			dep := planner.LiveDeparture{
				TripID:  tripID,
				RouteID: routeID,
				Status:  "On Time",
			}
			if stu.Departure.Time != nil {
				dep.Departure = time.Unix(*stu.Departure.Time, 0).UTC().Format("15:04")
			}
			if stu.Departure.Delay != nil {
				dep.DelaySeconds = int(*stu.Departure.Delay)
				if time.Duration(dep.DelaySeconds)*time.Second >= delayedThreshold {
					dep.Status = "Delayed"
				}
			}
			result = append(result, dep)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Departure < result[j].Departure
	})
	return result, nil
}

func (c *Client) isTerminalStop(stopID string) bool {
	for _, id := range c.stopIDs {
		if strings.HasPrefix(stopID, id) {
			return true
		}
	}
	return false
}

func (c *Client) fetchFeed(ctx context.Context) (*gtfs.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return nil, fmt.Errorf("failed to parse protobuf: %w", err)
	}

	return feed, nil
}
