package main

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
)

type sessionObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

type event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object sessionObject `json:"object"`
	} `json:"data"`
}

func randomString(n int) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func generateEvent(orderID string) event {
	var e event
	e.ID = "evt_" + randomString(14)
	e.Type = "checkout.session.completed"
	e.Data.Object = sessionObject{
		ID:            "cs_test_" + randomString(14),
		PaymentIntent: "pi_" + randomString(14),
		PaymentStatus: "paid",
		AmountTotal:   int64(rand.Intn(50000) + 500),
		Metadata:      map[string]string{"order_id": orderID},
	}
	return e
}

func signature(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func main() {
	url := flag.String("url", "http://localhost:8080/payments/webhook", "webhook endpoint")
	secret := flag.String("secret", "whsec_test", "webhook signing secret")
	orderID := flag.String("order", "", "order id, random one if empty")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(2 * time.Second)
	for {
		select {
		case <-ticker.C:
			id := *orderID
			if id == "" {
				id = uuid.NewString()
			}
			payload, _ := json.Marshal(generateEvent(id))

			req, _ := http.NewRequest(http.MethodPost, *url, bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Stripe-Signature", signature(payload, *secret, time.Now()))

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				log.Println("Ошибка запроса:", err)
				continue
			}
			log.Println("event sent for order", id, "->", resp.Status)
			resp.Body.Close()
		case <-ctx.Done():
			return
		}
	}
}
