package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AnTengye/mediconnect/config"
	"github.com/AnTengye/mediconnect/form"
	"github.com/AnTengye/mediconnect/model"
	"github.com/google/go-cmp/cmp"
)

func newTestUpstream(t *testing.T, handler http.HandlerFunc) *UpstreamClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewUpstreamClient(&config.UpstreamConfig{BaseURL: server.URL + "/api/v1", Timeout: 5 * time.Second})
}

func TestNewUpstreamClient(t *testing.T) {
	cfg := &config.UpstreamConfig{BaseURL: "http://localhost:8088/api/v1"}

	client := NewUpstreamClient(cfg)
	if client == nil {
		t.Fatal("Expected non-nil client")
	}
	if client.config != cfg {
		t.Error("Expected config to be set")
	}
	if client.httpClient == nil || client.httpClient.Timeout != 10*time.Second {
		t.Error("Expected httpClient with default timeout")
	}
}

func TestUpstreamRegisterDoctor(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/auth/register/doctor" {
			t.Errorf("Expected /api/v1/auth/register/doctor, got %s", r.URL.Path)
		}

		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["role"] != "DOCTOR" {
			t.Errorf("Expected role DOCTOR, got %v", body["role"])
		}
		if body["rate"] != 150.0 {
			t.Errorf("Expected numeric rate 150, got %v", body["rate"])
		}
		if body["bio"] != "Heart & soul" {
			t.Errorf("Expected sanitized bio, got %v", body["bio"])
		}
		if body["password"] != "<secret>123" {
			t.Errorf("Expected password untouched, got %v", body["password"])
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Submit(context.Background(), form.Submission{
		Kind: form.KindRegistration,
		Values: form.Values{
			form.FieldFirstName:      "Ann",
			form.FieldLastName:       "Lee",
			form.FieldEmail:          "ann@lee.io",
			form.FieldPassword:       "<secret>123",
			form.FieldRole:           "DOCTOR",
			form.FieldSpecialization: model.SpecCardiologist,
			form.FieldBio:            "<script>alert(1)</script>Heart & soul",
			form.FieldLocation:       "Downtown",
			form.FieldRate:           "150",
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestUpstreamRegisterFailure(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"email taken"}`))
	})

	err := client.Submit(context.Background(), form.Submission{
		Kind: form.KindRegistration,
		Values: form.Values{
			form.FieldFirstName:   "Ann",
			form.FieldLastName:    "Lee",
			form.FieldEmail:       "ann@lee.io",
			form.FieldPassword:    "secret123",
			form.FieldRole:        "PATIENT",
			form.FieldDateOfBirth: "1990-02-03",
		},
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Op != OpRegister {
		t.Errorf("Unexpected API error %+v", apiErr)
	}
	if apiErr.UserMessage() != "" {
		t.Errorf("Expected no user message for registration, got %q", apiErr.UserMessage())
	}
}

func TestUpstreamActivate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		wantErr bool
	}{
		{"ok", http.StatusOK, "", false},
		{"bad request", http.StatusBadRequest, "Invalid or expired activation code", true},
		{"not found", http.StatusNotFound, "Activation code not found", true},
		{"server error", http.StatusInternalServerError, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("Expected GET, got %s", r.Method)
				}
				if r.URL.Path != "/api/v1/auth/activate-account" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("token"); got != "123456" {
					t.Errorf("Expected token 123456, got %s", got)
				}
				w.WriteHeader(tt.status)
			})

			err := client.Submit(context.Background(), form.Submission{
				Kind:   form.KindActivation,
				Values: form.Values{form.FieldToken: "123456"},
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Activate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var um form.UserMessager
			if !errors.As(err, &um) {
				t.Fatalf("Expected UserMessager, got %T", err)
			}
			if um.UserMessage() != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, um.UserMessage())
			}
		})
	}
}

func TestUpstreamResendActivation(t *testing.T) {
	var got map[string]string
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/resend-activation" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
	})

	if err := client.ResendActivation(context.Background(), "ann@lee.io"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got["email"] != "ann@lee.io" {
		t.Errorf("Expected email in body, got %v", got)
	}
}

func TestUpstreamUpdateSettings(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/patient/me" {
			t.Errorf("Expected /api/v1/patient/me, got %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["firstName"] != "John" || body["allergies"] != "Penicillin" {
			t.Errorf("Unexpected body %v", body)
		}
		w.Write([]byte(`{}`))
	})

	err := client.Submit(context.Background(), form.Submission{
		Kind: form.KindSettings,
		Role: model.RolePatient,
		Values: form.Values{
			form.FieldFirstName:   "John",
			form.FieldLastName:    "Doe",
			form.FieldEmail:       "john.doe@mail.com",
			form.FieldDateOfBirth: "1990-01-01",
			form.FieldAllergies:   "<b>Penicillin</b>",
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestUpstreamSubmitUnknownRole(t *testing.T) {
	client := NewUpstreamClient(&config.UpstreamConfig{BaseURL: "http://127.0.0.1:0"})
	err := client.Submit(context.Background(), form.Submission{Kind: form.KindSettings, Role: "nurse"})
	if err == nil {
		t.Error("Expected error for unknown role")
	}
}

func TestUpstreamListDoctors(t *testing.T) {
	doctors := `[
		{"id": 1, "user": {"id": 101, "firstName": "Sarah", "lastName": "Johnson", "email": "sarah.johnson@medical.com"},
		 "specialization": "Cardiologist", "location": "Downtown Medical Center", "isApproved": true, "rate": 200.0,
		 "createdDate": "2023-01-15T10:30:00", "lastModifiedDate": "2023-08-20T14:45:00"},
		{"id": 6, "user": {"id": 106, "firstName": "Robert", "lastName": "Kim"},
		 "specialization": "Neurologist", "isApproved": false, "rate": null}
	]`

	for _, tt := range []struct {
		name string
		body string
	}{
		{"array", doctors},
		{"page", `{"content": ` + doctors + `, "totalPages": 1}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/doctors" {
					t.Errorf("Expected /api/v1/doctors, got %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			providers, err := UpstreamSource{Client: client}.Load(context.Background())
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(providers) != 2 {
				t.Fatalf("Expected 2 providers, got %d", len(providers))
			}
			first := providers[0]
			if first.ID != "1" || first.FullName() != "Sarah Johnson" || !first.Approved {
				t.Errorf("Unexpected provider %+v", first)
			}
			if first.Rate.Amount() != 200 {
				t.Errorf("Expected rate 200, got %v", first.Rate)
			}
			want := time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)
			if !first.CreatedAt.Equal(want) {
				t.Errorf("Expected created %s, got %s", want, first.CreatedAt)
			}
			if providers[1].Rate.Valid() {
				t.Error("Expected null rate to be invalid")
			}
		})
	}
}

func TestUpstreamListDoctorsInvalid(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	})

	if _, err := client.ListDoctors(context.Background()); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestUpstreamUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewUpstreamClient(&config.UpstreamConfig{BaseURL: url})
	err := client.Activate(context.Background(), "123456")
	if err == nil {
		t.Fatal("Expected error for unreachable upstream")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("Expected transport error, not an API error")
	}
}

func TestUpstreamSubmitRejectsMarkupOnlyFields(t *testing.T) {
	var calls int
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	err := client.Submit(context.Background(), form.Submission{
		Kind: form.KindSettings,
		Role: model.RolePatient,
		Values: form.Values{
			form.FieldFirstName:   "<b></b>",
			form.FieldLastName:    "Doe",
			form.FieldEmail:       "john.doe@mail.com",
			form.FieldDateOfBirth: "1990-01-01",
		},
	})

	var invalid *InvalidSubmissionError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected *InvalidSubmissionError, got %v", err)
	}
	if diff := cmp.Diff(form.Errors{form.FieldFirstName: "First name is required"}, invalid.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if calls != 0 {
		t.Errorf("Expected no upstream call, got %d", calls)
	}
}

func TestEngineWithUpstreamNormalizer(t *testing.T) {
	var calls int
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	values := form.Values{
		form.FieldFirstName:   "<b></b>",
		form.FieldLastName:    "Doe",
		form.FieldEmail:       "john.doe@mail.com",
		form.FieldDateOfBirth: "1990-01-01",
	}
	e := form.NewEngine(form.KindSettings, model.RolePatient, values, client, form.WithNormalizer(client.Sanitize))

	outcome, err := e.Submit(context.Background())
	if err != nil || outcome != form.OutcomeRejected {
		t.Fatalf("Expected rejected outcome, got %s, %v", outcome, err)
	}
	if msg := e.Snapshot().Errors[form.FieldFirstName]; msg != "First name is required" {
		t.Errorf("Expected inline first name error, got %q", msg)
	}
	if calls != 0 {
		t.Errorf("Expected no upstream call, got %d", calls)
	}
}
