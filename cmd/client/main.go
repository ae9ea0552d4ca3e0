package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"NetsQRPay/internal/models"
	"NetsQRPay/internal/nets"
	"NetsQRPay/internal/session"

	"github.com/gorilla/websocket"
)

type placeResponse struct {
	OK            bool                `json:"ok"`
	OrderResponse *nets.OrderResponse `json:"orderResponse"`
	DocID         string              `json:"docId"`
}

type statusEvent struct {
	Status    string          `json:"status"`
	Response  json.RawMessage `json:"response,omitempty"`
	UpdatedAt string          `json:"updatedAt"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "API base URL")
	amount := flag.Int64("amount", 0, "amount in cents (0 = server default)")
	timeout := flag.Duration("timeout", 5*time.Minute, "how long to wait for a terminal status")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sess := session.New()
	if err := sess.Begin(); err != nil {
		log.Fatalf("session: %v", err)
	}

	placed, err := placeOrder(ctx, *apiURL, *amount)
	if err != nil {
		log.Fatalf("place order failed: %v", err)
	}
	if err := sess.Placed(placed.DocID); err != nil {
		log.Fatalf("session: %v", err)
	}

	fmt.Printf("order placed: ok=%v doc=%s rc=%s\n", placed.OK, placed.DocID, placed.OrderResponse.ResponseCode)
	if placed.OrderResponse.QRCode != "" {
		fmt.Printf("qr code received (%d base64 chars), scan to pay\n", len(placed.OrderResponse.QRCode))
	}

	if err := observe(ctx, *apiURL, sess); err != nil {
		log.Fatalf("observe failed: %v", err)
	}
	fmt.Printf("final status: %s\n", sess.Status())
}

func placeOrder(ctx context.Context, apiURL string, amountCents int64) (*placeResponse, error) {
	var body bytes.Buffer
	if amountCents > 0 {
		if err := json.NewEncoder(&body).Encode(map[string]int64{"amountCents": amountCents}); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/transactions", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var placed placeResponse
	if err := json.NewDecoder(resp.Body).Decode(&placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

func observe(ctx context.Context, apiURL string, sess *session.Session) error {
	wsURL := strings.Replace(apiURL, "http", "ws", 1) + "/transactions/" + sess.DocID() + "/ws"

	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var ev statusEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return err
		}
		if err := sess.Observe(ev.Status); err != nil {
			return err
		}
		fmt.Printf("status: %s (%s)\n", ev.Status, ev.UpdatedAt)

		if models.TxnStatus(ev.Status).Terminal() {
			return nil
		}
	}
}
