package ez

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain"
	resp "taskboard/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

var taskSpec = ListSpec{
	Filters: map[string]Filter{
		"name":   {Column: "name"},
		"status": {Column: "status"},
	},
	Sorts:       map[string]string{"createdAt": "created_at", "updatedAt": "updated_at"},
	DefaultSort: "createdAt",
	MaxLimit:    100,
}

func TestListSpecParse(t *testing.T) {
	q, err := taskSpec.Parse(url.Values{"name": {"A"}, "page": {"3"}, "limit": {"10"}, "sortBy": {"updatedAt"}, "sortOrder": {"-1"}})
	if err != nil {
		t.Fatal(err)
	}
	if q.Filters["name"] != "A" || q.OrderBy != "updated_at" || !q.Desc || q.Limit != 10 || q.Offset != 20 {
		t.Fatalf("unexpected query %+v", q)
	}

	q, err = taskSpec.Parse(url.Values{"page": {"zero"}, "limit": {"-4"}, "status": {""}})
	if err != nil {
		t.Fatal(err)
	}
	if q.OrderBy != "created_at" || q.Desc || q.Limit != 5 || q.Offset != 0 || len(q.Filters) != 0 {
		t.Fatalf("expected defaults, got %+v", q)
	}

	q, _ = taskSpec.Parse(url.Values{"limit": {"1000"}})
	if q.Limit != 100 {
		t.Errorf("limit should be capped, got %d", q.Limit)
	}

	q, err = taskSpec.Parse(url.Values{"status": {"finished"}})
	if err != nil || q.Filters["status"] != "finished" {
		t.Errorf("unknown status should filter, got %+v, %v", q, err)
	}

	q, err = taskSpec.Parse(url.Values{"page": {"99999999999999999"}, "limit": {"100"}})
	if err != nil {
		t.Fatal(err)
	}
	if want := (math.MaxInt/100 - 1) * 100; q.Offset != want {
		t.Errorf("huge page offset = %d, want %d", q.Offset, want)
	}
}

func TestListSpecRejects(t *testing.T) {
	userSpec := ListSpec{Filters: map[string]Filter{"name": {Column: "name"}, "role": {Column: "role"}}}
	tests := []struct {
		name string
		ls   ListSpec
		in   url.Values
		msg  string
	}{
		{"unknown key", taskSpec, url.Values{"foo": {"1"}}, "Query foo is not allowed"},
		{"bad sort key", taskSpec, url.Values{"sortBy": {"name"}}, "Sort by name is not allowed"},
		{"bad sort order", taskSpec, url.Values{"sortOrder": {"asc"}}, "Sort order asc is not allowed"},
		{"users have no sorting", userSpec, url.Values{"sortBy": {"createdAt"}}, "Query sortBy is not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ls.Parse(tt.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if err.Error() != tt.msg {
				t.Errorf("message = %q, want %q", err.Error(), tt.msg)
			}
		})
	}
}

type createIn struct {
	Name   string `json:"name" binding:"required"`
	Status string `json:"status" binding:"omitempty,oneof=pending done"`
}

type optionalIn struct {
	Assignee *string `json:"assignee"`
}

func newEngine() *gin.Engine {
	r := gin.New()
	e := New(r.Group(""))
	RegisterAction(e, Action[createIn, createIn]{
		Method:  http.MethodPost,
		Path:    "/things",
		Binder:  BindJSON,
		Title:   "Thing Validation Error",
		Message: "Created",
		Handler: func(c *gin.Context, in *createIn) (createIn, error) { return *in, nil },
	})
	RegisterAction(e, Action[optionalIn, gin.H]{
		Method:  http.MethodPost,
		Path:    "/things/:id",
		Binder:  BindJSONOptional,
		Message: "Assigned",
		Handler: func(c *gin.Context, in *optionalIn) (gin.H, error) {
			if in.Assignee == nil {
				c.Set(KeyMessage, "Unassigned")
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
	RegisterAction(e, Action[struct{}, any]{
		Method: http.MethodGet,
		Path:   "/fail/:kind",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			switch c.Param("kind") {
			case "notfound":
				return nil, domain.NotFound("Thing does not exist!")
			case "transition":
				return nil, domain.InvalidTransition("nope")
			}
			return nil, errors.New("db down")
		},
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, resp.Resp) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestRegisterAction(t *testing.T) {
	r := newEngine()

	code, out := do(t, r, http.MethodPost, "/things", `{"name":"a"}`)
	if code != http.StatusOK || !out.Success || out.Message != "Created" || out.Errors != nil {
		t.Fatalf("unexpected success envelope %d %+v", code, out)
	}

	code, out = do(t, r, http.MethodPost, "/things", `{"status":"later"}`)
	if code != http.StatusBadRequest || out.Success || out.Message != "Thing Validation Error" {
		t.Fatalf("unexpected validation envelope %d %+v", code, out)
	}
	if len(out.Errors) != 2 || out.Errors[0] != "Name is required" || out.Errors[1] != "Invalid value for status" {
		t.Fatalf("unexpected messages %v", out.Errors)
	}

	_, out = do(t, r, http.MethodPost, "/things", `{"name":5}`)
	if len(out.Errors) != 1 || out.Errors[0] != "Name must be a String" {
		t.Fatalf("unexpected type message %v", out.Errors)
	}

	_, out = do(t, r, http.MethodPost, "/things", `{"name":`)
	if len(out.Errors) != 1 || out.Errors[0] != "Malformed JSON body" {
		t.Fatalf("unexpected syntax message %v", out.Errors)
	}
}

func TestOptionalBody(t *testing.T) {
	r := newEngine()
	code, out := do(t, r, http.MethodPost, "/things/7", "")
	if code != http.StatusOK || out.Message != "Unassigned" {
		t.Fatalf("empty body should bind to zero value: %d %+v", code, out)
	}
	_, out = do(t, r, http.MethodPost, "/things/7", `{"assignee":"u1"}`)
	if out.Message != "Assigned" {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestFailMapsKinds(t *testing.T) {
	r := newEngine()
	tests := []struct {
		path   string
		status int
		title  string
		msg    string
	}{
		{"/fail/notfound", http.StatusNotFound, "Not Found", "Thing does not exist!"},
		{"/fail/transition", http.StatusBadRequest, "Bad Request", "nope"},
		{"/fail/other", http.StatusInternalServerError, "Internal Server Error", "Internal Server Error"},
	}
	for _, tt := range tests {
		code, out := do(t, r, http.MethodGet, tt.path, "")
		if code != tt.status || out.Message != tt.title || len(out.Errors) != 1 || out.Errors[0] != tt.msg {
			t.Errorf("%s: got %d %+v", tt.path, code, out)
		}
		if out.Data != nil {
			t.Errorf("%s: failures carry no data", tt.path)
		}
	}
}
