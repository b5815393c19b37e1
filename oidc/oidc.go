package oidcutil

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	coreoidc "github.com/coreos/go-oidc/v3/oidc"

	"forum/config"
	"forum/logger"
	"forum/metrics"
)

// Claims is the identity carried by a verified token.
type Claims struct {
	Subject string
	Name    string
}

// Verifier checks Dex-issued ID tokens, including the expected audience.
type Verifier struct {
	idv      *coreoidc.IDTokenVerifier
	audience string
}

func NewVerifier(idv *coreoidc.IDTokenVerifier, audience string) *Verifier {
	return &Verifier{idv: idv, audience: audience}
}

// Init discovers the issuer (with backoff) and returns a token verifier.
func Init(ctx context.Context, cfg config.Config) (*Verifier, error) {
	p, err := initProviderWithBackoff(ctx, cfg.DexIssuer, cfg.DexOIDCMaxAttempts, cfg.DexCACertFile)
	if err != nil {
		return nil, err
	}
	idv := p.Verifier(&coreoidc.Config{
		ClientID:          cfg.ClientID,
		SkipClientIDCheck: cfg.Audience != "" && cfg.Audience != cfg.ClientID,
	})
	return NewVerifier(idv, cfg.Audience), nil
}

// VerifyToken verifies a raw token and validates audience & expiration.
func (v *Verifier) VerifyToken(ctx context.Context, raw string) (Claims, error) {
	tok, err := v.idv.Verify(ctx, raw)
	if err != nil {
		return Claims{}, err
	}
	if v.audience != "" && !contains(tok.Audience, v.audience) {
		return Claims{}, ErrInvalidAudience{Expected: v.audience, Got: strings.Join(tok.Audience, ",")}
	}
	if time.Now().After(tok.Expiry) {
		return Claims{}, ErrTokenExpired{}
	}
	var extra struct {
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
		Email             string `json:"email"`
	}
	if err := tok.Claims(&extra); err != nil {
		return Claims{}, err
	}
	name := extra.Name
	if name == "" {
		name = extra.PreferredUsername
	}
	if name == "" {
		name = extra.Email
	}
	return Claims{Subject: tok.Subject, Name: name}, nil
}

// Errors

type ErrInvalidAudience struct{ Expected, Got string }

func (e ErrInvalidAudience) Error() string {
	return "invalid audience: expected " + e.Expected + " got " + e.Got
}

type ErrTokenExpired struct{}

func (e ErrTokenExpired) Error() string { return "token expired" }

func initProviderWithBackoff(ctx context.Context, issuer string, maxAttempts int, caFile string) (*coreoidc.Provider, error) {
	if maxAttempts <= 0 {
		maxAttempts = 8
	}
	client, err := httpClient(caFile)
	if err != nil {
		return nil, err
	}
	pctx := coreoidc.ClientContext(ctx, client)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var provider *coreoidc.Provider
		provider, err = coreoidc.NewProvider(pctx, issuer)
		if err == nil {
			metrics.AddOIDCInitAttempts(uint64(attempt))
			logger.Info("oidc provider initialized", logger.FieldKV("issuer", issuer), logger.FieldKV("attempt", attempt))
			return provider, nil
		}
		if strings.Contains(err.Error(), "server gave HTTP response to HTTPS client") {
			logger.Error("oidc issuer scheme mismatch (https expected but endpoint is http)", err,
				logger.FieldKV("issuer", issuer),
				logger.FieldKV("hint", "DEX_ISSUER_URL and the Dex issuer must use the same scheme"))
		}
		if attempt == maxAttempts {
			break
		}
		sleep := time.Duration(math.Min(float64(time.Second*30), float64(time.Second)*math.Pow(2, float64(attempt))))
		logger.Error("oidc provider init failed", err, logger.FieldKV("attempt", attempt), logger.FieldKV("next_sleep", sleep.String()))
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			metrics.AddOIDCInitAttempts(uint64(attempt))
			return nil, fmt.Errorf("oidc init canceled: %w", ctx.Err())
		}
	}
	metrics.AddOIDCInitAttempts(uint64(maxAttempts))
	return nil, fmt.Errorf("initialize oidc provider after %d attempts: %w", maxAttempts, err)
}

func contains(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}

// httpClient returns the client used for discovery and key fetches,
// trusting the PEM bundle at caFile in addition to the system roots.
func httpClient(caFile string) (*http.Client, error) {
	c := &http.Client{Timeout: 10 * time.Second}
	if caFile == "" {
		return c, nil
	}
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read ca file: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}
	c.Transport = &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
	}
	logger.Info("custom CA trust added for OIDC", logger.FieldKV("path", caFile))
	return c, nil
}
