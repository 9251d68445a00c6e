package eventapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// EmailLog searches the event's email log and returns every recipient of the
// matching entries. The endpoint pages its results; all pages are fetched.
func (c *Client) EmailLog(ctx context.Context, conference int, query string) ([]string, error) {
	var recipients []string
	path := fmt.Sprintf("/event/%d/manage/logs/api/logs", conference)

	page := 1
	for {
		q := url.Values{}
		q.Set("filters", "email")
		q.Set("q", query)
		q.Set("page", strconv.Itoa(page))

		var out struct {
			Entries []struct {
				Payload struct {
					To []string `json:"to"`
				} `json:"payload"`
			} `json:"entries"`
			Pages []int `json:"pages"`
		}
		if err := c.getJSON(ctx, path, q, &out); err != nil {
			return nil, err
		}

		for _, entry := range out.Entries {
			recipients = append(recipients, entry.Payload.To...)
		}

		if len(out.Pages) == 0 || page >= out.Pages[len(out.Pages)-1] {
			break
		}
		page++
	}

	return recipients, nil
}
