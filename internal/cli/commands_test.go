package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "sections": {"1": {"enabled": true}},
  "items": {
    "10": {"title": "Email Address", "htmlName": "email", "inputType": "email", "isEnabled": true, "sectionId": 1},
    "11": {"title": "First Name", "htmlName": "first_name", "inputType": "text", "isEnabled": true, "sectionId": 1},
    "12": {"title": "Last Name", "htmlName": "last_name", "inputType": "text", "isEnabled": true, "sectionId": 1},
    "13": {"title": "Team", "htmlName": "field_7", "inputType": "single_choice", "isEnabled": true, "sectionId": 1,
           "captions": {"id1": "Infra", "id2": "Apps"}}
  }
}`

// regServer answers the endpoints the registration commands touch. A
// non-zero editStatus makes every edit fail with that code.
type regServer struct {
	edits      []map[string]any
	editStatus int
}

func (s *regServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/form/"):
		fmt.Fprintf(w, `<div id="registration-form-setup-container" data-form-data='%s'></div>`, testSchema)
	case strings.HasSuffix(r.URL.Path, "/registrants"):
		fmt.Fprint(w, `{"registrants": [
			{"registrant_id": 7, "personal_data": {"email": "a@x.com", "first_name": "Ada", "last_name": "Lovelace"}}
		]}`)
	case strings.HasSuffix(r.URL.Path, "/edit"):
		if s.editStatus != 0 {
			http.Error(w, "nope", s.editStatus)
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		s.edits = append(s.edits, body)
		fmt.Fprint(w, `{"redirect": "/done"}`)
	case strings.HasSuffix(r.URL.Path, "/customize"):
		r.ParseForm()
		json.NewEncoder(w).Encode(map[string]string{"html": `<table>
			<thead><tr><th>Email Address</th></tr></thead>
			<tbody><tr><td data-text="a@x.com">a@x.com</td></tr></tbody>
		</table>`})
	default:
		http.NotFound(w, r)
	}
}

func TestRegEditCSV_EndToEnd(t *testing.T) {
	srv := &regServer{}
	app, out := newTestApp(t, srv)

	path := filepath.Join(t.TempDir(), "regs.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"Email Address,Team\na@x.com,Apps\nnobody@x.com,Apps\n"), 0o600))

	err := app.Run(context.Background(), []string{"regeditcsv", "42", "3", path})
	require.NoError(t, err)

	require.Len(t, srv.edits, 1)
	assert.Equal(t, map[string]any{"id2": float64(1)}, srv.edits[0]["field_7"])
	assert.Contains(t, out.String(), "nobody@x.com FAILED: user nobody@x.com is not registered")
	assert.Contains(t, out.String(), "1 updated, 0 registered, 1 failed")
}

func TestRegEdit_EndToEnd(t *testing.T) {
	srv := &regServer{}
	app, out := newTestApp(t, srv)

	err := app.Run(context.Background(), []string{
		"regedit", "-set", "Team=Infra", "42", "3", "a@x.com"})
	require.NoError(t, err)

	require.Len(t, srv.edits, 1)
	assert.Equal(t, map[string]any{"id1": float64(1)}, srv.edits[0]["field_7"])
	assert.Contains(t, out.String(), "7 updated")
}

func TestRegEdit_RemoteFailureReportedNotFatal(t *testing.T) {
	srv := &regServer{editStatus: http.StatusInternalServerError}
	app, out := newTestApp(t, srv)

	err := app.Run(context.Background(), []string{
		"regedit", "-set", "Team=Infra", "42", "3", "a@x.com"})
	require.NoError(t, err, "a per-registration failure does not fail the command")
	assert.Contains(t, out.String(), "FAILED:")
}

func TestRegFields_EndToEnd(t *testing.T) {
	app, out := newTestApp(t, &regServer{})

	err := app.Run(context.Background(), []string{"regfields", "42", "3"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "email (email): Email Address")
	assert.Contains(t, out.String(), "field_7 (single_choice): Team")
	assert.Contains(t, out.String(), "id1: Infra")
}

func TestRegQuery_EndToEnd(t *testing.T) {
	app, out := newTestApp(t, &regServer{})

	err := app.Run(context.Background(), []string{
		"regquery", "-query", "Team=Infra", "42", "3"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com\n", out.String())
}

func TestRegQuery_JSONFormat(t *testing.T) {
	app, out := newTestApp(t, &regServer{})

	err := app.Run(context.Background(), []string{
		"regquery", "-format", "json", "42", "3"})
	require.NoError(t, err)

	var results []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "a@x.com", results[0]["Email Address"])
}

func TestRegQuery_HeaderRowWithSeveralFields(t *testing.T) {
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/form/") {
			fmt.Fprintf(w, `<div id="registration-form-setup-container" data-form-data='%s'></div>`, testSchema)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"html": `<table>
			<thead><tr><th>ID</th><th>Email Address</th></tr></thead>
			<tbody><tr><td>#7</td><td data-text="a@x.com">a@x.com</td></tr></tbody>
		</table>`})
	}))

	err := app.Run(context.Background(), []string{
		"regquery", "-field", "id", "-field", "Email Address", "42", "3"})
	require.NoError(t, err)

	// a single column prints bare values; several get a header row
	assert.Equal(t, "ID,Email Address\n7,a@x.com\n", out.String())
}

func TestEmailLog_EndToEnd(t *testing.T) {
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "reminder", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"entries": [{"payload": {"to": ["a@x.com"]}}], "pages": [1]}`)
	}))

	err := app.Run(context.Background(), []string{"emaillog", "42", "reminder"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com\n", out.String())
}

func TestGroupAddUser_EndToEnd(t *testing.T) {
	var editedMembers string
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/user/search/":
			fmt.Fprint(w, `{"users": [{"id": 12, "email": "g@x.com"}]}`)
		case strings.HasSuffix(r.URL.Path, "/members"):
			json.NewEncoder(w).Encode(map[string]string{"html": `<table><tbody>
				<tr><td><a data-href="/admin/users/11">Ada</a></td></tr>
			</tbody></table>`})
		case strings.HasSuffix(r.URL.Path, "/edit"):
			r.ParseForm()
			editedMembers = r.PostForm.Get("members")
			w.Header().Set("Location", "/admin/groups/")
			w.WriteHeader(http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))

	err := app.Run(context.Background(), []string{"groupadduser", "5", "g@x.com", "11"})
	require.NoError(t, err)

	assert.JSONEq(t, `["User:11", "User:12"]`, editedMembers)
	assert.Contains(t, out.String(), "1 users added")
}

const contribExport = `{"results": [{"contributions": [
	{"db_id": 9, "title": "Talk A", "roomFullname": "Main Hall",
	 "startDate": {"date": "2024-06-01", "time": "10:00:00"},
	 "endDate": {"date": "2024-06-01", "time": "10:30:00"},
	 "speakers": [{"name": "Ada Lovelace", "email": "a@x.com"}],
	 "primaryauthors": [], "coauthors": []},
	{"db_id": 10, "title": "Talk B", "roomFullname": "Main Hall",
	 "startDate": {"date": "2024-06-01", "time": "10:15:00"},
	 "endDate": {"date": "2024-06-01", "time": "10:45:00"},
	 "speakers": [{"name": "Ada Lovelace", "email": "a@x.com"}],
	 "primaryauthors": [], "coauthors": []}
]}]}`

func TestSubmitCheck_EndToEnd(t *testing.T) {
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/export/event/42.json" {
			fmt.Fprint(w, contribExport)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"html": `<form>
			<input type="hidden" name="person_link_data"
				value="[{&quot;name&quot;: &quot;Ada Lovelace&quot;, &quot;roles&quot;: [&quot;speaker&quot;]}]">
		</form>`})
	}))

	err := app.Run(context.Background(), []string{"submitcheck", "42"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Ada Lovelace http"), lines[0])
	assert.Contains(t, lines[0], "/event/42/contributions/9")
}

func TestOverlap_EndToEnd(t *testing.T) {
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, contribExport)
	}))

	err := app.Run(context.Background(), []string{"overlap", "42"})
	require.NoError(t, err)

	// the two talks overlap for their shared speaker and their shared room
	assert.Contains(t, out.String(),
		"\tConflict: Talk B @2024-06-01T10:15:00 - 2024-06-01T10:45:00 vs Talk A @2024-06-01T10:00:00 - 2024-06-01T10:30:00\n")
	assert.Contains(t, out.String(), "\tTime/Room Conflict in Main Hall: Talk B")
}

func TestContribLink_EndToEnd(t *testing.T) {
	success := true
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event/42/manage/contributions/9/attachments/add/link", r.URL.Path)
		r.ParseForm()
		assert.Equal(t, "https://example.com/slides", r.PostForm.Get("link_url"))
		json.NewEncoder(w).Encode(map[string]any{
			"success":          success,
			"flashed_messages": `<div class="flash"><p>The link has been added</p></div>`,
		})
	}))

	err := app.Run(context.Background(), []string{
		"contriblink", "42", "9", "https://example.com/slides", "Slides"})
	require.NoError(t, err)
	assert.Equal(t, "Success: The link has been added\n", out.String())

	out.Reset()
	success = false
	err = app.Run(context.Background(), []string{
		"contriblink", "42", "9", "https://example.com/slides", "Slides"})
	require.NoError(t, err, "a rejected link is reported, not an error")
	assert.Equal(t, "Fail: The link has been added\n", out.String())
}
