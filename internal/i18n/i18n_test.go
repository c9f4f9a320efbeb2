package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslations(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	tests := []struct {
		lang  string
		msgID string
		want  string
	}{
		{"en", "UserNameRequired", "User name is required"},
		{"tr", "UserNameRequired", "Kullanıcı adı gerekli"},
		{"en", "SessionInvalid", "Invalid session ID"},
		{"tr", "SessionInvalid", "Geçersiz session ID"},
		{"en", "GameReset", "Game reset"},
		{"tr", "GameReset", "Oyun sıfırlandı"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.msgID, func(t *testing.T) {
			ctx := WithLocalizer(context.Background(), NewLocalizer(tt.lang))
			if got := T(ctx, tt.msgID); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.msgID, got, tt.want)
			}
		})
	}
}

func TestMissingMessageFallsBackToID(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
	if got := T(ctx, "NoSuchMessage"); got != "NoSuchMessage" {
		t.Errorf("T for missing id = %q, want the id itself", got)
	}
}

func TestContextWithoutLocalizerUsesDefault(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := T(context.Background(), "ServerError"); got != "Server error" {
		t.Errorf("T without localizer = %q, want default English", got)
	}
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx := WithLocalizer(context.Background(), NewLocalizer("xx"))
	if got := T(ctx, "ServerError"); got != "Server error" {
		t.Errorf("T with unknown language = %q, want English fallback", got)
	}
}

func TestInitRejectsBadLanguageTag(t *testing.T) {
	if err := Init("!!"); err == nil {
		t.Error("expected an error for an invalid language tag")
	}
	// Restore a valid bundle for any tests that follow.
	if err := Init("en"); err != nil {
		t.Fatal(err)
	}
}

func TestMiddlewareInjectsLocalizer(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "UserNameRequired")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	Middleware("tr")(next).ServeHTTP(rec, req)

	if got != "Kullanıcı adı gerekli" {
		t.Errorf("middleware localized message = %q, want Turkish", got)
	}
}
