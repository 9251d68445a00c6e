package eventapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AddUser provisions a user account.
func (c *Client) AddUser(ctx context.Context, email, firstName, lastName, affiliation string) error {
	form := url.Values{}
	form.Set("first_name", firstName)
	form.Set("last_name", lastName)
	form.Set("email", email)
	form.Set("affiliation", affiliation)

	_, _, err := c.do(ctx, request{method: http.MethodPost, path: "/admin/users/create/", form: form})
	return err
}

// SearchUser finds user accounts with the given email.
func (c *Client) SearchUser(ctx context.Context, email string) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	q := url.Values{}
	q.Set("email", email)
	q.Set("exact", "true")
	if err := c.getJSON(ctx, "/user/search/", q, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// SearchGroup finds groups by name.
func (c *Client) SearchGroup(ctx context.Context, name string, exact bool) ([]Group, error) {
	var out struct {
		Groups []Group `json:"groups"`
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("exact", strconv.FormatBool(exact))
	if err := c.getJSON(ctx, "/groups/api/search", q, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}

// GroupMembers lists the user ids in a group. The members are only available
// as an HTML fragment; ids are pulled from each row's link target.
func (c *Client) GroupMembers(ctx context.Context, group int) ([]int, error) {
	var out struct {
		HTML string `json:"html"`
	}
	path := fmt.Sprintf("/admin/groups/indico/%d/members", group)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse group member list: %w", err)
	}

	var members []int
	var parseErr error
	doc.Find("table tbody tr td a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("data-href")
		if !ok {
			return
		}
		parts := strings.Split(href, "/")
		id, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			parseErr = fmt.Errorf("parse member link %q: %w", href, err)
			return
		}
		members = append(members, id)
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return members, nil
}

// EditGroup replaces a group's member list.
func (c *Client) EditGroup(ctx context.Context, group int, members []int) error {
	refs := make([]string, 0, len(members))
	for _, m := range members {
		refs = append(refs, "User:"+strconv.Itoa(m))
	}
	encoded, err := json.Marshal(refs)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("members", string(encoded))

	path := fmt.Sprintf("/admin/groups/indico/%d/edit", group)
	_, resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   path,
		form:   form,
		expect: http.StatusFound,
	})
	if err != nil {
		return err
	}
	if resp.Header.Get("Location") != "/admin/groups/" {
		return fmt.Errorf("unexpected response editing group %d", group)
	}
	return nil
}

// parse helper shared with the timetable scraping: the first form on an HTML
// fragment, as name/value pairs the way a browser would submit it.
func formValues(html string) (url.Values, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(html)))
	if err != nil {
		return nil, fmt.Errorf("parse form fragment: %w", err)
	}

	form := doc.Find("form").First()
	values := url.Values{}

	form.Find("input[name]").Each(func(_ int, in *goquery.Selection) {
		name, _ := in.Attr("name")
		typ, _ := in.Attr("type")
		switch typ {
		case "submit", "button", "file":
			return
		case "checkbox", "radio":
			if _, checked := in.Attr("checked"); !checked {
				return
			}
		}
		values.Set(name, in.AttrOr("value", ""))
	})
	form.Find("textarea[name]").Each(func(_ int, ta *goquery.Selection) {
		name, _ := ta.Attr("name")
		values.Set(name, ta.Text())
	})
	form.Find("select[name]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		opt := sel.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = sel.Find("option").First()
		}
		values.Set(name, opt.AttrOr("value", strings.TrimSpace(opt.Text())))
	})

	return values, nil
}
