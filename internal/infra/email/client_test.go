package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainEmail "habit_reminder_service/internal/domain/email"
)

func testReminder() *domainEmail.Reminder {
	return &domainEmail.Reminder{
		ToEmail: "ada@example.com",
		ToName:  "ada",
		Count:   2,
		Plural:  true,
		Habits: []domainEmail.IncompleteHabit{
			{Name: "run", Description: "5km"},
			{Name: "read"},
		},
		AppURL: "https://habits.example.com",
	}
}

func TestSend_PostsTemplateParams(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewEmailJSClient("service-1", "template-1", "public-key")
	c.endpoint = srv.URL

	if err := c.Send(context.Background(), testReminder()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got.ServiceID != "service-1" || got.TemplateID != "template-1" || got.UserID != "public-key" {
		t.Errorf("credentials = %s/%s/%s", got.ServiceID, got.TemplateID, got.UserID)
	}
	if got.TemplateParams["to_email"] != "ada@example.com" {
		t.Errorf("to_email = %v", got.TemplateParams["to_email"])
	}
	if got.TemplateParams["habit_plural"] != "s" {
		t.Errorf("habit_plural = %v, want \"s\"", got.TemplateParams["habit_plural"])
	}
	// json numbers decode as float64
	if got.TemplateParams["habit_count"] != float64(2) {
		t.Errorf("habit_count = %v, want 2", got.TemplateParams["habit_count"])
	}
	list, _ := got.TemplateParams["habit_list"].(string)
	if !strings.Contains(list, "run: 5km") || !strings.Contains(list, "read") {
		t.Errorf("habit_list = %q", list)
	}
}

func TestSend_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The template ID not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewEmailJSClient("service-1", "template-1", "public-key")
	c.endpoint = srv.URL

	err := c.Send(context.Background(), testReminder())
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestSend_SingularHasEmptyPluralSuffix(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewEmailJSClient("service-1", "template-1", "public-key")
	c.endpoint = srv.URL

	r := testReminder()
	r.Count = 1
	r.Plural = false
	r.Habits = r.Habits[:1]

	if err := c.Send(context.Background(), r); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.TemplateParams["habit_plural"] != "" {
		t.Errorf("habit_plural = %v, want empty", got.TemplateParams["habit_plural"])
	}
}
