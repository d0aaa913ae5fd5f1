package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestForgotPasswordHandler(t *testing.T) {
	app := newTestApp(t, "test_h_forgot")
	app.register(t, "Ana", "ana@example.com", "password123")

	t.Run("known and unknown emails answer identically", func(t *testing.T) {
		wKnown := postJSON(t, NewResetHandler(app.resetSvc).ForgotPassword, "/forgot-password",
			`{"email":"ana@example.com"}`)
		wUnknown := postJSON(t, NewResetHandler(app.resetSvc).ForgotPassword, "/forgot-password",
			`{"email":"nobody@example.com"}`)

		if wKnown.Code != http.StatusOK {
			t.Fatalf("known email status = %d, want %d; body: %s", wKnown.Code, http.StatusOK, wKnown.Body.String())
		}
		if wUnknown.Code != http.StatusOK {
			t.Fatalf("unknown email status = %d, want %d", wUnknown.Code, http.StatusOK)
		}
		if wKnown.Body.String() != wUnknown.Body.String() {
			t.Errorf("response bodies differ: %q vs %q", wKnown.Body.String(), wUnknown.Body.String())
		}

		var body map[string]string
		if err := json.Unmarshal(wKnown.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["message"] != MsgForgotGeneric {
			t.Errorf("message = %q, want %q", body["message"], MsgForgotGeneric)
		}

		// Only the existing account actually received mail
		if app.mailer.resetSent != 1 {
			t.Errorf("mailer sent %d reset mails, want 1", app.mailer.resetSent)
		}
	})

	t.Run("invalid email format", func(t *testing.T) {
		w := postJSON(t, app.reset.ForgotPassword, "/forgot-password", `{"email":"not-an-email"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("mail failure stays generic", func(t *testing.T) {
		app.mailer.sendErr = errors.New("ses unavailable")
		defer func() { app.mailer.sendErr = nil }()

		w := postJSON(t, app.reset.ForgotPassword, "/forgot-password",
			`{"email":"ana@example.com"}`)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["error"] != ErrInternalServerError {
			t.Errorf("error = %q, want generic %q", body["error"], ErrInternalServerError)
		}
	})
}

func TestResetPasswordHandler(t *testing.T) {
	app := newTestApp(t, "test_h_reset")
	app.register(t, "Ana", "ana@example.com", "oldpassword1")

	token, err := app.resetSvc.Issue(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	t.Run("missing token or password", func(t *testing.T) {
		w := postJSON(t, app.reset.ResetPassword, "/reset-password", `{"password":"newpassword1"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		w = postJSON(t, app.reset.ResetPassword, "/reset-password", `{"token":"abc"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown token gets generic error", func(t *testing.T) {
		w := postJSON(t, app.reset.ResetPassword, "/reset-password",
			`{"token":"no-such-token","password":"newpassword1"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["error"] != ErrInvalidOrExpired {
			t.Errorf("error = %q, want %q", body["error"], ErrInvalidOrExpired)
		}
	})

	t.Run("overlong password", func(t *testing.T) {
		w := postJSON(t, app.reset.ResetPassword, "/reset-password",
			`{"token":"`+token+`","password":"`+strings.Repeat("a", 73)+`"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("success", func(t *testing.T) {
		w := postJSON(t, app.reset.ResetPassword, "/reset-password",
			`{"token":"`+token+`","password":"newpassword1"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["message"] != MsgResetSuccess {
			t.Errorf("message = %q, want %q", body["message"], MsgResetSuccess)
		}

		// Login with the new password now works
		login := postJSON(t, app.auth.Login, "/login",
			`{"email":"ana@example.com","password":"newpassword1"}`)
		if login.Code != http.StatusOK {
			t.Errorf("login with new password status = %d, want %d", login.Code, http.StatusOK)
		}
	})

	t.Run("token is single-use", func(t *testing.T) {
		w := postJSON(t, app.reset.ResetPassword, "/reset-password",
			`{"token":"`+token+`","password":"anotherpass1"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
