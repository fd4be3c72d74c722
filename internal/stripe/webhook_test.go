package stripe_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/avmarkin/checkout-service/internal/stripe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec_test"

func sign(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func header(payload []byte, secret string, ts time.Time) string {
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), sign(payload, secret, ts))
}

var payload = []byte(`{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {"object": {"id": "cs_123", "payment_intent": "pi_123", "amount_total": 3998, "metadata": {"order_id": "ord-1"}}}
}`)

func TestConstructEvent(t *testing.T) {
	tolerance := 5 * time.Minute

	t.Run("valid signature", func(t *testing.T) {
		event, err := stripe.ConstructEvent(payload, header(payload, secret, time.Now()), secret, tolerance)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, stripe.EventCheckoutSessionCompleted, event.Type)

		session, err := event.CheckoutSession()
		require.NoError(t, err)
		assert.Equal(t, "cs_123", session.ID)
		assert.Equal(t, "pi_123", session.PaymentIntent)
		assert.Equal(t, int64(3998), session.AmountTotal)
		assert.Equal(t, "ord-1", session.Metadata[stripe.MetadataOrderID])
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := stripe.ConstructEvent(payload, header(payload, "whsec_other", time.Now()), secret, tolerance)
		assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		h := header(payload, secret, time.Now())
		tampered := append([]byte(nil), payload...)
		tampered[len(tampered)-2] = 'x'

		_, err := stripe.ConstructEvent(tampered, h, secret, tolerance)
		assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
	})

	t.Run("timestamp outside tolerance", func(t *testing.T) {
		old := time.Now().Add(-time.Hour)
		_, err := stripe.ConstructEvent(payload, header(payload, secret, old), secret, tolerance)
		assert.ErrorIs(t, err, stripe.ErrTimestampTooOld)

		future := time.Now().Add(time.Hour)
		_, err = stripe.ConstructEvent(payload, header(payload, secret, future), secret, tolerance)
		assert.ErrorIs(t, err, stripe.ErrTimestampTooOld)
	})

	t.Run("malformed headers", func(t *testing.T) {
		now := time.Now()
		for _, h := range []string{
			"",
			"garbage",
			"t=not-a-number,v1=" + sign(payload, secret, now),
			fmt.Sprintf("t=%d", now.Unix()),
			"v1=" + sign(payload, secret, now),
		} {
			_, err := stripe.ConstructEvent(payload, h, secret, tolerance)
			assert.ErrorIs(t, err, stripe.ErrInvalidHeader, "header: %q", h)
		}
	})

	t.Run("one valid signature among several", func(t *testing.T) {
		now := time.Now()
		h := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(),
			sign(payload, "whsec_rotated_out", now), sign(payload, secret, now))

		event, err := stripe.ConstructEvent(payload, h, secret, tolerance)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
	})

	t.Run("valid signature over invalid json", func(t *testing.T) {
		bad := []byte("not json")
		_, err := stripe.ConstructEvent(bad, header(bad, secret, time.Now()), secret, tolerance)
		assert.Error(t, err)
	})
}
