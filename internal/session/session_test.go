package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbeckett/carworth/internal/session"
)

const testSecret = "test-session-secret-at-least-32-chars!!"

func writeAndReread(t *testing.T, m *session.Manager, values session.Values) session.Values {
	t.Helper()

	w := httptest.NewRecorder()
	if err := m.Write(w, values); err != nil {
		t.Fatalf("Write: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	return m.Read(r)
}

func TestManager_RoundTrip(t *testing.T) {
	m := session.NewManager(testSecret, false)

	values := session.Values{}
	values.SetUserID(42)
	values.Set("theme", "dark")

	got := writeAndReread(t, m, values)

	id, ok := got.UserID()
	if !ok {
		t.Fatal("expected userId to survive the round trip")
	}
	if id != 42 {
		t.Fatalf("expected userId 42, got %d", id)
	}
	if got.Get("theme") != "dark" {
		t.Fatalf("expected theme dark, got %q", got.Get("theme"))
	}
}

func TestManager_Read_NoCookie(t *testing.T) {
	m := session.NewManager(testSecret, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	values := m.Read(r)

	if len(values) != 0 {
		t.Fatalf("expected empty bag, got %v", values)
	}
	if _, ok := values.UserID(); ok {
		t.Fatal("expected no userId in empty bag")
	}
}

func TestManager_Read_TamperedCookie(t *testing.T) {
	m := session.NewManager(testSecret, false)

	values := session.Values{}
	values.SetUserID(7)

	w := httptest.NewRecorder()
	if err := m.Write(w, values); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cookie := w.Result().Cookies()[0]
	cookie.Value = cookie.Value[:len(cookie.Value)-5] + "XXXXX"

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	if got := m.Read(r); len(got) != 0 {
		t.Fatalf("expected empty bag for tampered cookie, got %v", got)
	}
}

func TestManager_Read_WrongSecret(t *testing.T) {
	m1 := session.NewManager(testSecret, false)
	m2 := session.NewManager("another-session-secret-with-32-chars!!!!", false)

	values := session.Values{}
	values.SetUserID(7)

	w := httptest.NewRecorder()
	if err := m1.Write(w, values); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(w.Result().Cookies()[0])

	if got := m2.Read(r); len(got) != 0 {
		t.Fatalf("expected empty bag under different secret, got %v", got)
	}
}

func TestManager_Read_GarbageCookie(t *testing.T) {
	m := session.NewManager(testSecret, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-signed-session"})

	if got := m.Read(r); len(got) != 0 {
		t.Fatalf("expected empty bag for garbage cookie, got %v", got)
	}
}

func TestManager_Clear(t *testing.T) {
	m := session.NewManager(testSecret, false)

	w := httptest.NewRecorder()
	m.Clear(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Fatalf("expected negative MaxAge, got %d", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Fatalf("expected empty value, got %q", cookies[0].Value)
	}
}

func TestValues_DeleteRemovesUserID(t *testing.T) {
	values := session.Values{}
	values.SetUserID(9)
	values.Delete(session.KeyUserID)

	if _, ok := values.UserID(); ok {
		t.Fatal("expected userId to be gone after Delete")
	}
}

func TestManager_CookieAttributes(t *testing.T) {
	m := session.NewManager(testSecret, true)

	w := httptest.NewRecorder()
	if err := m.Write(w, session.Values{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	c := w.Result().Cookies()[0]
	if !c.HttpOnly {
		t.Fatal("expected HttpOnly cookie")
	}
	if !c.Secure {
		t.Fatal("expected Secure cookie")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", c.SameSite)
	}
}
