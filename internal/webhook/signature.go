package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrSignatureMismatch is returned when a delivery's signature header is
// missing or does not match the configured secret.
var ErrSignatureMismatch = errors.New("webhook signature mismatch")

// Sign returns the signature a platform sends for payload under secret.
// Shopify and WooCommerce send the base64 HMAC-SHA256; custom senders use
// sha256=<hex_encoded_hmac>.
func Sign(platform Platform, payload []byte, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret cannot be empty")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	if _, err := mac.Write(payload); err != nil {
		return "", fmt.Errorf("failed to write payload to HMAC: %w", err)
	}
	sum := mac.Sum(nil)

	switch platform {
	case PlatformShopify, PlatformWordPress:
		return base64.StdEncoding.EncodeToString(sum), nil
	case PlatformCustom:
		return "sha256=" + hex.EncodeToString(sum), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
}

// Verify checks the platform signature header against payload.
func Verify(platform Platform, signature string, payload []byte, secret string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return fmt.Errorf("%w: missing signature header", ErrSignatureMismatch)
	}

	expected, err := Sign(platform, payload, secret)
	if err != nil {
		return err
	}

	if platform == PlatformCustom {
		// Prefix is case-insensitive, the hex digest is compared decoded.
		got, ok := cutPrefixFold(signature, "sha256=")
		if !ok {
			return fmt.Errorf("%w: expected sha256=<hex> format", ErrSignatureMismatch)
		}
		gotSum, err := hex.DecodeString(got)
		if err != nil {
			return fmt.Errorf("%w: signature is not hex", ErrSignatureMismatch)
		}
		wantSum, _ := hex.DecodeString(strings.TrimPrefix(expected, "sha256="))
		if !hmac.Equal(gotSum, wantSum) {
			return ErrSignatureMismatch
		}
		return nil
	}

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrSignatureMismatch
	}
	return nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
