package eventapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Contribution is one entry of the contribution export. Unscheduled entries
// have nil dates.
type Contribution struct {
	DBID           int             `json:"db_id"`
	Title          string          `json:"title"`
	Room           string          `json:"roomFullname"`
	StartDate      *eventTime      `json:"startDate"`
	EndDate        *eventTime      `json:"endDate"`
	Speakers       []ContribPerson `json:"speakers"`
	PrimaryAuthors []ContribPerson `json:"primaryauthors"`
	Coauthors      []ContribPerson `json:"coauthors"`
}

type ContribPerson struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ContributionList returns the decoded contribution export of a conference.
func (c *Client) ContributionList(ctx context.Context, conference int) ([]Contribution, error) {
	raw, err := c.Contributions(ctx, conference)
	if err != nil {
		return nil, err
	}

	var export struct {
		Results []struct {
			Contributions []Contribution `json:"contributions"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("decode contribution export: %w", err)
	}
	if len(export.Results) == 0 {
		return nil, nil
	}
	return export.Results[0].Contributions, nil
}

// MissingSubmitter names a contribution person who lacks the submitter role
// and therefore cannot upload material, together with the page where an
// operator can grant it.
type MissingSubmitter struct {
	Name string
	URL  string
}

// MissingSubmitters checks every scheduled contribution with listed persons
// and reports the first person per contribution without the submitter role.
// The role is only visible in the contribution's management edit form, so
// one form is fetched per candidate; a contribution whose form cannot be
// loaded is logged and skipped.
func (c *Client) MissingSubmitters(ctx context.Context, conference int) ([]MissingSubmitter, error) {
	contribs, err := c.ContributionList(ctx, conference)
	if err != nil {
		return nil, err
	}

	var missing []MissingSubmitter
	for _, entry := range contribs {
		if entry.StartDate == nil {
			continue
		}
		if len(entry.Speakers)+len(entry.PrimaryAuthors)+len(entry.Coauthors) == 0 {
			continue
		}

		persons, err := c.contributionPersons(ctx, conference, entry.DBID)
		if err != nil {
			c.log.Warn(ctx, "cannot load contribution form, skipping",
				"contribution", entry.DBID, "error", err)
			continue
		}

		for _, person := range persons {
			if !slices.Contains(person.Roles, "submitter") {
				missing = append(missing, MissingSubmitter{
					Name: person.Name,
					URL:  c.pageURL(fmt.Sprintf("/event/%d/contributions/%d", conference, entry.DBID)),
				})
				break
			}
		}
	}
	return missing, nil
}

type personLink struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// contributionPersons pulls the person/role list out of a contribution's
// management edit form, where it sits JSON-encoded in a form value.
func (c *Client) contributionPersons(ctx context.Context, conference, cid int) ([]personLink, error) {
	var out struct {
		HTML string `json:"html"`
	}
	q := url.Values{}
	q.Set("standalone", "1")
	path := fmt.Sprintf("/event/%d/manage/contributions/%d/edit", conference, cid)
	if err := c.getJSON(ctx, path, q, &out); err != nil {
		return nil, err
	}

	values, err := formValues(out.HTML)
	if err != nil {
		return nil, err
	}

	var persons []personLink
	if err := json.Unmarshal([]byte(values.Get("person_link_data")), &persons); err != nil {
		return nil, fmt.Errorf("decode person link data for contribution %d: %w", cid, err)
	}
	return persons, nil
}

// ContributionAddLink attaches a link to a contribution's material list. The
// returned message is the service's flash text; ok reports whether the
// service accepted the link.
func (c *Client) ContributionAddLink(ctx context.Context, conference, cid int, link, title string) (string, bool, error) {
	form := url.Values{}
	form.Set("link_url", link)
	form.Set("title", title)
	form.Set("folder", "__None")
	form.Set("acl", "[]")

	path := fmt.Sprintf("/event/%d/manage/contributions/%d/attachments/add/link", conference, cid)
	data, _, err := c.do(ctx, request{method: http.MethodPost, path: path, form: form})
	if err != nil {
		return "", false, err
	}

	var out struct {
		Success         bool   `json:"success"`
		FlashedMessages string `json:"flashed_messages"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", false, fmt.Errorf("decode attachment response: %w", err)
	}

	message := strings.TrimSpace(out.FlashedMessages)
	if doc, perr := goquery.NewDocumentFromReader(strings.NewReader(out.FlashedMessages)); perr == nil {
		if text := strings.TrimSpace(doc.Text()); text != "" {
			message = text
		}
	}
	return message, out.Success, nil
}

// slot is one occupied stretch of schedule.
type slot struct {
	start, end, title string
}

// ScheduleConflict is two contributions overlapping in time while sharing a
// presenter (Room empty) or a room.
type ScheduleConflict struct {
	Room      string
	Title     string
	Start     string
	End       string
	PrevTitle string
	PrevStart string
	PrevEnd   string
}

// ScheduleReport is the result of a schedule consistency check.
type ScheduleReport struct {
	Unscheduled []string
	Conflicts   []ScheduleConflict
}

// CheckSchedule flags contributions that overlap in time while sharing a
// speaker, author or room, and lists entries missing a time slot entirely.
// Slots compare as ISO strings, which order the same way the times do.
func CheckSchedule(contribs []Contribution) ScheduleReport {
	var report ScheduleReport
	byPerson := map[string]map[slot]struct{}{}
	byRoom := map[string]map[slot]struct{}{}

	add := func(m map[string]map[slot]struct{}, key string, s slot) {
		if m[key] == nil {
			m[key] = map[slot]struct{}{}
		}
		m[key][s] = struct{}{}
	}

	for _, entry := range contribs {
		if entry.StartDate == nil || entry.EndDate == nil {
			report.Unscheduled = append(report.Unscheduled, entry.Title)
			continue
		}

		s := slot{start: entry.StartDate.iso(), end: entry.EndDate.iso(), title: entry.Title}
		for _, group := range [][]ContribPerson{entry.Speakers, entry.PrimaryAuthors, entry.Coauthors} {
			for _, person := range group {
				add(byPerson, person.Email, s)
			}
		}
		add(byRoom, entry.Room, s)
	}

	report.Conflicts = append(report.Conflicts, slotConflicts(byPerson, false)...)
	report.Conflicts = append(report.Conflicts, slotConflicts(byRoom, true)...)
	return report
}

func slotConflicts(m map[string]map[slot]struct{}, room bool) []ScheduleConflict {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []ScheduleConflict
	for _, key := range keys {
		slots := make([]slot, 0, len(m[key]))
		for s := range m[key] {
			slots = append(slots, s)
		}
		sort.Slice(slots, func(i, j int) bool {
			if slots[i].start != slots[j].start {
				return slots[i].start < slots[j].start
			}
			return slots[i].title < slots[j].title
		})

		last := slots[0]
		for _, s := range slots[1:] {
			if s.start < last.end {
				c := ScheduleConflict{
					Title: s.title, Start: s.start, End: s.end,
					PrevTitle: last.title, PrevStart: last.start, PrevEnd: last.end,
				}
				if room {
					c.Room = key
				}
				out = append(out, c)
			}
			last = s
		}
	}
	return out
}
