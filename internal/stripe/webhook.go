package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"
)

var (
	ErrInvalidHeader    = errors.New("invalid signature header")
	ErrInvalidSignature = errors.New("signature mismatch")
	ErrTimestampTooOld  = errors.New("signature timestamp outside tolerance")
)

type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutSession разбирает data.object события как checkout session.
func (e Event) CheckoutSession() (CheckoutSession, error) {
	var session CheckoutSession
	if err := json.Unmarshal(e.Data.Object, &session); err != nil {
		return CheckoutSession{}, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}
	return session, nil
}

// ConstructEvent проверяет подпись вебхука и разбирает событие.
// Схема провайдера: HMAC-SHA256 от "<timestamp>.<payload>" общим секретом,
// заголовок вида "t=1700000000,v1=hex". Проверка обязана идти по сырым
// байтам тела запроса, до какой-либо десериализации.
func ConstructEvent(payload []byte, header, secret string, tolerance time.Duration) (Event, error) {
	ts, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return Event{}, err
	}

	age := time.Since(time.Unix(ts, 0))
	if age > tolerance || age < -tolerance {
		return Event{}, ErrTimestampTooOld
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	valid := false
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return Event{}, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}

func parseSignatureHeader(header string) (int64, [][]byte, error) {
	if header == "" {
		return 0, nil, ErrInvalidHeader
	}

	var ts int64
	var signatures [][]byte
	tsFound := false

	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return 0, nil, ErrInvalidHeader
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidHeader
			}
			ts = parsed
			tsFound = true
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				// битую подпись пропускаем, вдруг рядом есть валидная
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if !tsFound || len(signatures) == 0 {
		return 0, nil, ErrInvalidHeader
	}
	return ts, signatures, nil
}
