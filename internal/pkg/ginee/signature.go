package ginee

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Ginee-Signature"

var warnNoSecretOnce sync.Once

// VerifyWebhookSignature checks header against the HMAC-SHA256 of body keyed
// with secret. An empty secret disables verification and logs a warning once.
// The header may carry a "sha256=" prefix.
func VerifyWebhookSignature(body []byte, header, secret string) error {
	if secret == "" {
		warnNoSecretOnce.Do(func() {
			log.Warn("[Ginee] GINEE_WEBHOOK_SECRET is not set; webhook signatures are not verified")
		})
		return nil
	}

	sig := strings.TrimSpace(header)
	sig = strings.TrimPrefix(sig, "sha256=")
	if sig == "" {
		return ErrInvalidSignature
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

// SignPayload returns the header value a sender would use for body.
func SignPayload(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
