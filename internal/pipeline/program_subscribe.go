package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/pratikbuilds/account-socket/internal/metrics"
	"github.com/pratikbuilds/account-socket/internal/platform/retry"
)

var dialPolicy = retry.Policy{
	MaxAttempts:    5,
	InitialBackoff: 500 * time.Millisecond,
	MaxBackoff:     10 * time.Second,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Datasource dial failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

// reconnectDelay separates stream failures from the dial retry loop.
const reconnectDelay = 2 * time.Second

// RPCProgramSubscribe streams account updates for one program over a JSON-RPC
// websocket subscription and decodes each notification with the injected
// Decoder. Dropped connections are re-established with bounded backoff.
type RPCProgramSubscribe struct {
	url       string
	programID string
	decoder   Decoder
}

func NewRPCProgramSubscribe(url, programID string, decoder Decoder) *RPCProgramSubscribe {
	return &RPCProgramSubscribe{url: url, programID: programID, decoder: decoder}
}

var _ Datasource = (*RPCProgramSubscribe)(nil)

func (d *RPCProgramSubscribe) Run(ctx context.Context, out chan<- domain.DecodedUpdate) error {
	for {
		if err := d.connectAndStream(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("Datasource stream ended, reconnecting", "error", err)
		}

		metrics.PipelineReconnects.Inc()
		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *RPCProgramSubscribe) connectAndStream(ctx context.Context, out chan<- domain.DecodedUpdate) error {
	var conn *websocket.Conn
	err := retry.Do(ctx, dialPolicy, func() error {
		var dialErr error
		conn, _, dialErr = websocket.DefaultDialer.DialContext(ctx, d.url, nil)
		return dialErr
	})
	if err != nil {
		return fmt.Errorf("failed to dial datasource: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop on cancellation.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	if err := d.subscribe(conn); err != nil {
		return err
	}
	slog.Info("Datasource subscribed", "program_id", d.programID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("datasource read failed: %w", err)
		}

		update, ok, err := d.parseNotification(data)
		if err != nil {
			slog.Warn("Skipping undecodable notification", "error", err)
			continue
		}
		if !ok {
			continue
		}

		select {
		case out <- update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *RPCProgramSubscribe) subscribe(conn *websocket.Conn) error {
	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "programSubscribe",
		"params": []any{
			d.programID,
			map[string]any{"encoding": "base64", "commitment": "confirmed"},
		},
	}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send programSubscribe: %w", err)
	}
	return nil
}

type programNotification struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Context struct {
				Slot int64 `json:"slot"`
			} `json:"context"`
			Value struct {
				Pubkey  string `json:"pubkey"`
				Account struct {
					Lamports int64    `json:"lamports"`
					Owner    string   `json:"owner"`
					Data     []string `json:"data"`
				} `json:"account"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// parseNotification returns ok=false for non-notification frames (such as the
// subscription confirmation reply).
func (d *RPCProgramSubscribe) parseNotification(data []byte) (domain.DecodedUpdate, bool, error) {
	var note programNotification
	if err := json.Unmarshal(data, &note); err != nil {
		return domain.DecodedUpdate{}, false, fmt.Errorf("failed to parse frame: %w", err)
	}
	if note.Method != "programNotification" {
		return domain.DecodedUpdate{}, false, nil
	}

	value := note.Params.Result.Value
	if len(value.Account.Data) == 0 {
		return domain.DecodedUpdate{}, false, fmt.Errorf("notification for %s carries no account data", value.Pubkey)
	}

	raw, err := base64.StdEncoding.DecodeString(value.Account.Data[0])
	if err != nil {
		return domain.DecodedUpdate{}, false, fmt.Errorf("failed to decode account data for %s: %w", value.Pubkey, err)
	}

	decoded, err := d.decoder.Decode(value.Pubkey, value.Account.Owner, value.Account.Lamports, raw)
	if err != nil {
		return domain.DecodedUpdate{}, false, fmt.Errorf("decoder rejected account %s: %w", value.Pubkey, err)
	}

	return domain.DecodedUpdate{
		Pubkey:   value.Pubkey,
		Slot:     note.Params.Result.Context.Slot,
		Owner:    value.Account.Owner,
		Lamports: value.Account.Lamports,
		Data:     decoded,
	}, true, nil
}
