package jwt

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-with-enough-entropy"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, cfg Config) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
	if cfg.Secret == "" {
		cfg.Secret = testSecret
	}
	svc, err := NewService(cfg, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, clock
}

func TestNewService_Defaults(t *testing.T) {
	svc, err := NewService(Config{Secret: testSecret})
	if err != nil {
		t.Fatal(err)
	}
	if svc.cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("expected 30m default TTL, got %v", svc.cfg.AccessTokenTTL)
	}
	if svc.method.Alg() != "HS256" {
		t.Errorf("expected HS256 default, got %s", svc.method.Alg())
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing secret", Config{}},
		{"unsupported method", Config{Secret: testSecret, Method: "RS256"}},
		{"none method", Config{Secret: testSecret, Method: "none"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewService(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, m := range []SigningMethod{HS256, HS384, HS512} {
		t.Run(string(m), func(t *testing.T) {
			svc, clock := newTestService(t, Config{Method: m})
			in := Claims{"sub": "a@b.com", "role": "admin", "name": "Ana"}

			token, err := svc.Encode(in, 30*time.Minute)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if strings.Count(token, ".") != 2 {
				t.Fatalf("expected compact JWS, got %q", token)
			}

			out, err := svc.Decode(token)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(out) != len(in)+1 {
				t.Errorf("expected input claims plus exp, got %v", out)
			}
			for k, v := range in {
				if out[k] != v {
					t.Errorf("claim %q: expected %v, got %v", k, v, out[k])
				}
			}
			if want := clock.Now().Add(30 * time.Minute); !out.ExpiresAt().Equal(want) {
				t.Errorf("expected exp %v, got %v", want, out.ExpiresAt())
			}
		})
	}
}

func TestEncode_DoesNotMutateInput(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	in := Claims{"sub": "a@b.com"}
	if _, err := svc.Encode(in, time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok := in[ClaimExpiresAt]; ok {
		t.Error("Encode must not add exp to the caller's map")
	}
}

func TestEncode_DefaultTTL(t *testing.T) {
	svc, clock := newTestService(t, Config{AccessTokenTTL: 10 * time.Minute})
	token, err := svc.Encode(Claims{"sub": "a@b.com"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	out, err := svc.Decode(token)
	if err != nil {
		t.Fatal(err)
	}
	if want := clock.Now().Add(10 * time.Minute); !out.ExpiresAt().Equal(want) {
		t.Errorf("expected configured TTL, got exp %v", out.ExpiresAt())
	}
}

func TestDecode_Expiry(t *testing.T) {
	svc, clock := newTestService(t, Config{})
	token, err := svc.Encode(Claims{"sub": "a@b.com"}, 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(30*time.Minute - time.Second)
	if _, err := svc.Decode(token); err != nil {
		t.Fatalf("expected token valid just before expiry: %v", err)
	}

	clock.Advance(2 * time.Second)
	_, err = svc.Decode(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
	if ReasonOf(err) != ReasonExpired {
		t.Errorf("expected reason expired, got %q", ReasonOf(err))
	}
}

func TestDecode_EncodeUntilPast(t *testing.T) {
	svc, clock := newTestService(t, Config{})
	token, err := svc.EncodeUntil(Claims{"sub": "a@b.com"}, clock.Now().Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Decode(token); ReasonOf(err) != ReasonExpired {
		t.Errorf("expected expired, got %v", err)
	}
}

func TestDecode_AlteredSignature(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	token, _ := svc.Encode(Claims{"sub": "a@b.com"}, time.Minute)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	i := len(sig) / 2
	if sig[i] == 'A' {
		sig[i] = 'B'
	} else {
		sig[i] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err := svc.Decode(tampered)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if ReasonOf(err) != ReasonSignature {
		t.Errorf("expected reason signature, got %q", ReasonOf(err))
	}
}

func TestDecode_AlteredPayload(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	token, _ := svc.Encode(Claims{"sub": "a@b.com", "role": "professional"}, time.Minute)
	forged, _ := svc.Encode(Claims{"sub": "a@b.com", "role": "admin"}, time.Minute)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := svc.Decode(spliced); ReasonOf(err) != ReasonSignature {
		t.Errorf("expected signature failure for spliced payload, got %v", err)
	}
}

func TestDecode_DifferentSecret(t *testing.T) {
	issuer, _ := newTestService(t, Config{Secret: "secret-one"})
	verifier, _ := newTestService(t, Config{Secret: "secret-two"})

	token, _ := issuer.Encode(Claims{"sub": "a@b.com"}, time.Minute)
	if _, err := verifier.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected invalid token for foreign secret, got %v", err)
	}
}

func TestDecode_AlgorithmMismatch(t *testing.T) {
	svc, clock := newTestService(t, Config{Method: HS256})
	other, _ := newTestService(t, Config{Method: HS512})

	token, _ := other.Encode(Claims{"sub": "a@b.com"}, time.Minute)
	if _, err := svc.Decode(token); ReasonOf(err) != ReasonAlgorithm {
		t.Errorf("expected algorithm rejection, got %v", err)
	}

	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"sub": "a@b.com",
		"exp": clock.Now().Add(time.Minute).Unix(),
	})
	none, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Decode(none); ReasonOf(err) != ReasonAlgorithm {
		t.Errorf("expected alg=none rejection, got %v", err)
	}
}

func TestDecode_MissingExp(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	raw, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{"sub": "a@b.com"}).
		SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Decode(raw)
	if !errors.Is(err, ErrInvalidToken) || ReasonOf(err) != ReasonClaims {
		t.Errorf("expected claims rejection for token without exp, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	for _, tok := range []string{"", "abc", "a.b", "a.b.c", "###.###.###"} {
		_, err := svc.Decode(tok)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%q: expected invalid token, got %v", tok, err)
		}
		if ReasonOf(err) != ReasonMalformed {
			t.Errorf("%q: expected malformed, got %q", tok, ReasonOf(err))
		}
	}
}

func TestIssuer(t *testing.T) {
	svc, _ := newTestService(t, Config{Issuer: "estetica-api"})
	token, _ := svc.Encode(Claims{"sub": "a@b.com"}, time.Minute)
	claims, err := svc.Decode(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims[ClaimIssuer] != "estetica-api" {
		t.Errorf("expected iss claim, got %v", claims[ClaimIssuer])
	}

	plain, _ := newTestService(t, Config{})
	noIss, _ := plain.Encode(Claims{"sub": "a@b.com"}, time.Minute)
	if _, err := svc.Decode(noIss); ReasonOf(err) != ReasonClaims {
		t.Errorf("expected issuer mismatch to be rejected, got %v", err)
	}
}

func TestClaims_Accessors(t *testing.T) {
	c := Claims{"sub": "a@b.com", "role": "admin"}
	if c.Subject() != "a@b.com" || c.Role() != "admin" {
		t.Errorf("unexpected accessors: %q %q", c.Subject(), c.Role())
	}
	bad := Claims{"sub": 42}
	if bad.Subject() != "" {
		t.Error("non-string sub should read as empty")
	}
	if !bad.ExpiresAt().IsZero() {
		t.Error("missing exp should read as zero time")
	}
}

func TestInvalidTokenError_Is(t *testing.T) {
	err := invalid(ReasonExpired, gojwt.ErrTokenExpired)
	if !errors.Is(err, ErrInvalidToken) {
		t.Error("expected errors.Is ErrInvalidToken")
	}
	if !errors.Is(err, gojwt.ErrTokenExpired) {
		t.Error("expected cause to be reachable")
	}
	if ReasonOf(errors.New("other")) != "" {
		t.Error("expected empty reason for foreign error")
	}
}

func TestService_ConcurrentDecode(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	token, _ := svc.Encode(Claims{"sub": "a@b.com"}, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Decode(token); err != nil {
				t.Errorf("concurrent decode: %v", err)
			}
		}()
	}
	wg.Wait()
}
