package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/readbridge-backend/internal/domain"
	"github.com/yungbote/readbridge-backend/internal/modules/profile"
	"github.com/yungbote/readbridge-backend/internal/platform/logger"
)

func testAuthService(tb testing.TB, secret string, accessTTL time.Duration) *authService {
	tb.Helper()
	log, err := logger.New("debug")
	if err != nil {
		tb.Fatalf("logger.New: %v", err)
	}
	svc := NewAuthService(nil, log, nil, nil, secret, accessTTL, 24*time.Hour)
	return svc.(*authService)
}

func signToken(tb testing.TB, secret string, subject string, expiresAt time.Time) string {
	tb.Helper()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		tb.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestParseAccessToken(t *testing.T) {
	svc := testAuthService(t, "test-secret", time.Hour)
	userID := uuid.New()

	t.Run("valid token round-trips the user id", func(t *testing.T) {
		tok := signToken(t, "test-secret", userID.String(), time.Now().Add(time.Hour))
		got, err := svc.ParseAccessToken(tok)
		if err != nil {
			t.Fatalf("ParseAccessToken: %v", err)
		}
		if got != userID {
			t.Fatalf("got user %s, want %s", got, userID)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		tok := signToken(t, "test-secret", userID.String(), time.Now().Add(-time.Minute))
		if _, err := svc.ParseAccessToken(tok); err == nil {
			t.Fatal("expected error for expired token")
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		tok := signToken(t, "other-secret", userID.String(), time.Now().Add(time.Hour))
		if _, err := svc.ParseAccessToken(tok); err == nil {
			t.Fatal("expected error for token signed with another secret")
		}
	})

	t.Run("garbage subject rejected", func(t *testing.T) {
		tok := signToken(t, "test-secret", "not-a-uuid", time.Now().Add(time.Hour))
		if _, err := svc.ParseAccessToken(tok); err == nil {
			t.Fatal("expected error for non-uuid subject")
		}
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		if _, err := svc.ParseAccessToken("not.a.jwt"); err == nil {
			t.Fatal("expected error for malformed token")
		}
	})
}

func TestSessionContextKey(t *testing.T) {
	cases := []struct {
		name string
		in   SessionContext
		want string
	}{
		{"both fields", SessionContext{TimeOfDay: "evening", Location: "home"}, "evening_home"},
		{"time only", SessionContext{TimeOfDay: "morning"}, "morning"},
		{"location only", SessionContext{Location: "commute"}, "commute"},
		{"empty", SessionContext{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Key(); got != tc.want {
				t.Fatalf("Key() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProfileEncodeDecode(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	prefs := []profile.TopicPreference{
		{Topic: "science", Weight: 0.8, Trend: profile.TrendRising, EventCount: 4, LastUpdated: now},
		{Topic: "history", Weight: 0.3, Trend: profile.TrendStable, EventCount: 2, LastUpdated: now},
	}
	contextual := map[string]profile.ContextualPreference{
		"evening_home": {Sessions: 3, MeanCompletion: 0.9, MeanLength: 1200},
	}
	history := []profile.EvolutionEvent{
		{Topic: "science", Kind: profile.EvolutionEmerged, Weight: 0.2, OccurredAt: now},
	}

	row := &types.ReadingProfile{UserID: uuid.New()}
	if err := encodeProfile(row, prefs, contextual, history); err != nil {
		t.Fatalf("encodeProfile: %v", err)
	}

	gotPrefs, err := decodeTopicPreferences(row.TopicPreferences)
	if err != nil {
		t.Fatalf("decodeTopicPreferences: %v", err)
	}
	if len(gotPrefs) != 2 || gotPrefs[0].Topic != "science" || gotPrefs[0].Weight != 0.8 {
		t.Fatalf("unexpected preferences after round trip: %+v", gotPrefs)
	}

	gotCtx, err := decodeContextualPreferences(row.ContextualPreferences)
	if err != nil {
		t.Fatalf("decodeContextualPreferences: %v", err)
	}
	if cp, ok := gotCtx["evening_home"]; !ok || cp.Sessions != 3 {
		t.Fatalf("unexpected contextual preferences after round trip: %+v", gotCtx)
	}

	gotHistory, err := decodeEvolutionHistory(row.EvolutionHistory)
	if err != nil {
		t.Fatalf("decodeEvolutionHistory: %v", err)
	}
	if len(gotHistory) != 1 || gotHistory[0].Kind != profile.EvolutionEmerged {
		t.Fatalf("unexpected history after round trip: %+v", gotHistory)
	}
}

func TestDecodeProfileEmptyColumns(t *testing.T) {
	prefs, err := decodeTopicPreferences(nil)
	if err != nil || prefs != nil {
		t.Fatalf("decodeTopicPreferences(nil) = %+v, %v", prefs, err)
	}
	ctxPrefs, err := decodeContextualPreferences(datatypes.JSON(nil))
	if err != nil || len(ctxPrefs) != 0 {
		t.Fatalf("decodeContextualPreferences(nil) = %+v, %v", ctxPrefs, err)
	}
}

func TestRecommendationCacheKeys(t *testing.T) {
	id := uuid.New()
	keys := recommendationCacheKeys(id)
	if len(keys) != 2 {
		t.Fatalf("expected 2 cache keys, got %d", len(keys))
	}
	want := map[string]bool{
		"rec:contextual:" + id.String(): true,
		"rec:discovery:" + id.String():  true,
	}
	for _, k := range keys {
		if !want[k] {
			t.Fatalf("unexpected cache key %q", k)
		}
	}
}
