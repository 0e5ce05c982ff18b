package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventintel/internal/delivery/http/middleware"
	"eventintel/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeIntakeService implements domain.IntakeService for handler tests.
type fakeIntakeService struct {
	err         error
	lastUserID  string
	lastPayload domain.RegistrationPayload
}

func (f *fakeIntakeService) Register(ctx context.Context, userID string, p domain.RegistrationPayload) (*domain.Attendee, error) {
	f.lastUserID = userID
	f.lastPayload = p
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Attendee{ID: "att-created", Name: p.Name, Email: p.Email, UserID: userID}, nil
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
}

func TestWebhookController_Receive(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		authed         bool
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"name":"Jane Doe","email":"jane@acme.com","company":"Acme","event_id":"devconf"}`,
			authed:     true,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing email",
			body:           `{"name":"Jane Doe"}`,
			authed:         true,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:           "email without at sign",
			body:           `{"name":"Jane Doe","email":"nope"}`,
			authed:         true,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email is invalid",
		},
		{
			name:           "bad timestamp",
			body:           `{"name":"Jane Doe","email":"jane@acme.com","timestamp":"yesterday"}`,
			authed:         true,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "RFC3339",
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			authed:         true,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:       "missing identity",
			body:       `{"name":"Jane Doe","email":"jane@acme.com"}`,
			authed:     false,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:           "service validation error",
			body:           `{"name":"Jane Doe","email":"jane@acme.com"}`,
			fakeErr:        fmt.Errorf("%w: bad payload", domain.ErrInvalidInput),
			authed:         true,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "bad payload",
		},
		{
			name:           "service error",
			body:           `{"name":"Jane Doe","email":"jane@acme.com"}`,
			fakeErr:        errors.New("db down"),
			authed:         true,
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeIntakeService{err: tt.fakeErr}
			ctrl := NewWebhookController(testLogger(), fake)

			var req *http.Request
			if tt.authed {
				req = authedRequest(http.MethodPost, "/webhooks/registration", tt.body)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/webhooks/registration", bytes.NewBufferString(tt.body))
				req.Header.Set("Content-Type", "application/json")
			}
			rr := httptest.NewRecorder()

			ctrl.Receive(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
			if tt.wantStatus == http.StatusCreated {
				var envelope struct {
					Data RegistrationResponse `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				assert.True(t, envelope.Data.Success)
				assert.Equal(t, "att-created", envelope.Data.AttendeeID)
				assert.Equal(t, "user-1", fake.lastUserID)
				require.NotNil(t, fake.lastPayload.Company)
				assert.Equal(t, "Acme", *fake.lastPayload.Company)
			}
		})
	}
}
