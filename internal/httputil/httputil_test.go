package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestOptional(t *testing.T) {
	type patch struct {
		Description Optional[string] `json:"description"`
	}

	tests := []struct {
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{`{}`, false, nil},
		{`{"description":null}`, true, nil},
		{`{"description":"texte"}`, true, strPtr("texte")},
		{`{"description":""}`, true, strPtr("")},
	}
	for _, tt := range tests {
		var p patch
		if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.body, err)
		}
		if p.Description.Present != tt.wantPresent || !reflect.DeepEqual(p.Description.Value, tt.wantValue) {
			t.Errorf("Unmarshal(%s) = %+v", tt.body, p.Description)
		}
	}

	var p patch
	if err := json.Unmarshal([]byte(`{"description":3}`), &p); err == nil {
		t.Error("expected an error for a number")
	}
}

func strPtr(s string) *string { return &s }

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?file_type=profil,peuple&file_type=Arme&limit=20&before=2026-01-02T03:04:05Z&bad=x", nil)

	if got := QueryList(r, "file_type"); !reflect.DeepEqual(got, []string{"profil", "peuple", "Arme"}) {
		t.Errorf("QueryList() = %v", got)
	}
	if got, err := QueryInt(r, "limit", 50); err != nil || got != 20 {
		t.Errorf("QueryInt(limit) = %d, %v", got, err)
	}
	if got, err := QueryInt(r, "missing", 50); err != nil || got != 50 {
		t.Errorf("QueryInt(missing) = %d, %v", got, err)
	}
	if _, err := QueryInt(r, "bad", 0); err == nil {
		t.Error("QueryInt(bad) expected error")
	}
	if got, err := QueryTime(r, "before"); err != nil || got == nil || got.Year() != 2026 {
		t.Errorf("QueryTime(before) = %v, %v", got, err)
	}
}

func TestRespondErrorWithExtras(t *testing.T) {
	w := httptest.NewRecorder()
	RespondErrorWithExtras(w, http.StatusTooManyRequests, "slow down", map[string]interface{}{"retry_after": 3})

	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["status"].(float64) != 429 || body["retry_after"].(float64) != 3 || body["detail"] != "slow down" {
		t.Errorf("body = %v", body)
	}
}
