package eventapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SwapKey selects which identifier the operator passed to name timetable
// entries.
type SwapKey string

const (
	SwapByContribution SwapKey = "contributionId"
	SwapByTimetableID  SwapKey = "id"
	SwapByFriendlyID   SwapKey = "friendlyId"
)

type timetableEntry struct {
	EntryType      string                    `json:"entryType"`
	ID             string                    `json:"id"`
	ContributionID json.Number               `json:"contributionId"`
	FriendlyID     json.Number               `json:"friendlyId"`
	StartDate      eventTime                 `json:"startDate"`
	Entries        map[string]timetableEntry `json:"entries"`
}

type eventTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (t *eventTime) iso() string {
	return t.Date + "T" + t.Time
}

// Timetable returns the raw timetable export of a conference.
func (c *Client) Timetable(ctx context.Context, conference int) (json.RawMessage, error) {
	data, _, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/export/timetable/%d.json", conference),
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Contributions returns the raw contribution export of a conference.
func (c *Client) Contributions(ctx context.Context, conference int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("detail", "contributions")
	data, _, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/export/event/%d.json", conference),
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// SwapTimetable exchanges the time slot and location of two contributions.
// Both entries must have the same duration; when they sit on different days
// they are additionally moved to each other's day.
func (c *Client) SwapTimetable(ctx context.Context, conference, aID, bID int, key SwapKey) error {
	table, err := c.timetableEntries(ctx, conference, key)
	if err != nil {
		return err
	}

	entryA, ok := table[aID]
	if !ok {
		return fmt.Errorf("timetable entry %d not found", aID)
	}
	entryB, ok := table[bID]
	if !ok {
		return fmt.Errorf("timetable entry %d not found", bID)
	}

	tidA := numericID(entryA.ID)
	tidB := numericID(entryB.ID)

	editA, err := c.timetableEditEntry(ctx, conference, tidA)
	if err != nil {
		return err
	}
	editB, err := c.timetableEditEntry(ctx, conference, tidB)
	if err != nil {
		return err
	}

	if editA.Get("duration") != editB.Get("duration") {
		return fmt.Errorf("mismatch in duration (%s vs %s)",
			editA.Get("duration"), editB.Get("duration"))
	}

	for _, field := range []string{"location_data", "time"} {
		a, b := editA.Get(field), editB.Get(field)
		editA.Set(field, b)
		editB.Set(field, a)
	}

	if err := c.editTimetableEntry(ctx, conference, tidA, editA); err != nil {
		return err
	}
	if err := c.editTimetableEntry(ctx, conference, tidB, editB); err != nil {
		return err
	}

	if entryA.StartDate.Date != entryB.StartDate.Date {
		if err := c.moveTimetable(ctx, conference, tidA, entryB.StartDate.Date); err != nil {
			return err
		}
		if err := c.moveTimetable(ctx, conference, tidB, entryA.StartDate.Date); err != nil {
			return err
		}
	}

	return nil
}

// timetableEntries flattens the per-day export into contribution entries
// keyed by the chosen identifier. Contributions nested in sessions count too.
func (c *Client) timetableEntries(ctx context.Context, conference int, key SwapKey) (map[int]timetableEntry, error) {
	raw, err := c.Timetable(ctx, conference)
	if err != nil {
		return nil, err
	}

	var export struct {
		Results map[string]map[string]map[string]timetableEntry `json:"results"`
	}
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("decode timetable export: %w", err)
	}

	entries := map[int]timetableEntry{}
	collect := func(entry timetableEntry) {
		if entry.EntryType != "Contribution" {
			return
		}
		if id, err := entryKey(entry, key); err == nil {
			entries[id] = entry
		}
	}

	for _, days := range export.Results {
		for _, day := range days {
			for _, entry := range day {
				collect(entry)
				for _, sub := range entry.Entries {
					collect(sub)
				}
			}
		}
	}
	return entries, nil
}

func entryKey(entry timetableEntry, key SwapKey) (int, error) {
	switch key {
	case SwapByContribution:
		v, err := entry.ContributionID.Int64()
		return int(v), err
	case SwapByFriendlyID:
		v, err := entry.FriendlyID.Int64()
		return int(v), err
	default:
		return strconv.Atoi(numericID(entry.ID))
	}
}

// numericID strips the entry-type prefix from a timetable id like "c1234".
func numericID(id string) string {
	return strings.TrimLeft(id, "abcdefghijklmnopqrstuvwxyz")
}

func (c *Client) timetableEditEntry(ctx context.Context, conference int, tid string) (url.Values, error) {
	var out struct {
		HTML string `json:"html"`
	}
	path := fmt.Sprintf("/event/%d/manage/timetable/entry/%s/edit/", conference, tid)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return formValues(out.HTML)
}

func (c *Client) editTimetableEntry(ctx context.Context, conference int, tid string, entry url.Values) error {
	path := fmt.Sprintf("/event/%d/manage/timetable/entry/%s/edit/", conference, tid)
	_, _, err := c.do(ctx, request{method: http.MethodPost, path: path, form: entry})
	return err
}

func (c *Client) moveTimetable(ctx context.Context, conference int, tid, day string) error {
	path := fmt.Sprintf("/event/%d/manage/timetable/entry/%s/move", conference, tid)
	_, _, err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     path,
		jsonBody: map[string]string{"day": day},
	})
	return err
}
