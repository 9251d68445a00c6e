package eventapi

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Registrant is one row of the event-wide registrant listing. Only the
// projection the tooling needs is decoded.
type Registrant struct {
	RegistrantID int          `json:"registrant_id"`
	PersonalData PersonalData `json:"personal_data"`
}

type PersonalData struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Registrations lists every registrant of a conference across all of its
// registration forms.
func (c *Client) Registrations(ctx context.Context, conference int) ([]Registrant, error) {
	var out struct {
		Registrants []Registrant `json:"registrants"`
	}
	path := fmt.Sprintf("/api/events/%d/registrants", conference)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Registrants, nil
}

// FormSchema fetches the raw field/section descriptor tree of a registration
// form. The service does not expose it as an endpoint: it is embedded in the
// form setup page as a data attribute.
func (c *Client) FormSchema(ctx context.Context, conference, regform int) ([]byte, error) {
	path := fmt.Sprintf("/event/%d/manage/registration/%d/form/", conference, regform)
	data, _, err := c.do(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse form setup page: %w", err)
	}
	schema, ok := doc.Find("#registration-form-setup-container").Attr("data-form-data")
	if !ok {
		return nil, fmt.Errorf("no form data found on setup page for form %d", regform)
	}
	return []byte(schema), nil
}

// EditRegistration submits one registration's field updates as a single
// atomic edit.
func (c *Client) EditRegistration(ctx context.Context, conference, regform, regid int, fields map[string]any, notify bool) error {
	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["notify_user"] = notify

	path := fmt.Sprintf("/event/%d/manage/registration/%d/registrations/%d/edit",
		conference, regform, regid)
	data, _, err := c.do(ctx, request{method: http.MethodPost, path: path, jsonBody: payload})
	if err != nil {
		return err
	}

	var out struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decode registration edit response: %w", err)
	}
	if out.Redirect == "" {
		return fmt.Errorf("unexpected response editing registration %d", regid)
	}
	return nil
}

// ImportRegistrations bulk-registers users through the form's CSV import.
// Each row is first name, last name, affiliation, position, phone, email.
// Validation failures come back as a 400 page whose error box is surfaced.
func (c *Client) ImportRegistrations(ctx context.Context, conference, regform int, rows [][]string, notify bool) error {
	path := fmt.Sprintf("/event/%d/manage/registration/%d/registrations/import",
		conference, regform)

	data, resp, err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       path,
		ignoreCode: true,
		multipart: func(mw *multipart.Writer) error {
			fw, err := mw.CreateFormFile("source_file", "import.csv")
			if err != nil {
				return err
			}
			cw := csv.NewWriter(fw)
			if err := cw.WriteAll(rows); err != nil {
				return err
			}
			if err := mw.WriteField("__file_change_trigger", "added-file"); err != nil {
				return err
			}
			if err := mw.WriteField("skip_moderation", "y"); err != nil {
				return err
			}
			if notify {
				return mw.WriteField("notify_users", "y")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		msg := excerpt(data)
		if doc, perr := goquery.NewDocumentFromReader(bytes.NewReader(data)); perr == nil {
			if text := strings.TrimSpace(doc.Find(".main .error-box p").First().Text()); text != "" {
				msg = text
			}
		}
		return &RemoteError{Method: http.MethodPost, URL: path, Status: resp.StatusCode, Body: msg}
	default:
		return &RemoteError{Method: http.MethodPost, URL: path, Status: resp.StatusCode, Body: excerpt(data)}
	}
}

// QueryRegistrations filters a form's registrations by field values and
// returns the requested columns. The endpoint renders an HTML table, so the
// result is scraped out of it.
func (c *Client) QueryRegistrations(ctx context.Context, conference, regform int, query map[string]string, fields []string) ([]map[string]string, error) {
	hasID := false
	visible := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "id" {
			hasID = true
			continue
		}
		visible = append(visible, f)
	}
	visibleJSON, err := json.Marshal(visible)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	for k, v := range query {
		form.Set(k, v)
	}
	form.Set("visible_items", string(visibleJSON))

	path := fmt.Sprintf("/event/%d/manage/registration/%d/registrations/customize",
		conference, regform)
	data, _, err := c.do(ctx, request{method: http.MethodPost, path: path, form: form})
	if err != nil {
		return nil, err
	}

	var out struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode registration query response: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse registration table: %w", err)
	}

	var headers []string
	doc.Find("table thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})

	var results []map[string]string
	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		result := map[string]string{}
		tr.Find("td").Each(func(idx int, td *goquery.Selection) {
			if idx >= len(headers) {
				return
			}
			header := headers[idx]
			switch {
			case header == "" || header == "Full name":
				// decorative columns
			case header == "ID":
				if hasID {
					// rendered as "#123"
					result[header] = strings.TrimPrefix(strings.TrimSpace(td.Text()), "#")
				}
			default:
				if v, ok := td.Attr("data-text"); ok {
					result[header] = v
				} else {
					result[header] = strings.TrimSpace(td.Text())
				}
			}
		})
		results = append(results, result)
	})

	return results, nil
}
