package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"bcvrates-service/internal/application"

	"go.uber.org/zap"
)

// DefaultAttemptTimeout bounds one relay attempt; worst-case total latency
// is len(relays) times this.
const DefaultAttemptTimeout = 8 * time.Second

// Dispatcher fetches a JSON document through an ordered list of relays.
// The first relay whose response is 2xx and decodes as JSON wins; every
// other outcome is a soft failure that moves on to the next relay.
type Dispatcher struct {
	Relays         []Relay
	Client         *http.Client
	AttemptTimeout time.Duration
	Log            *zap.Logger
}

func (d *Dispatcher) GetJSON(ctx context.Context, target string, out any) error {
	if v := reflect.ValueOf(out); v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	relays := d.Relays
	if len(relays) == 0 {
		relays = DefaultRelays()
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := d.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	var lastErr error
	for _, rl := range relays {
		err := attempt(ctx, client, timeout, rl, target, out)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("relay.attempt_failed",
			zap.String("relay", rl.Name()),
			zap.String("target", target),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no relays configured")
	}
	return fmt.Errorf("%w: %v", application.ErrSourceUnavailable, lastErr)
}

func attempt(ctx context.Context, client *http.Client, timeout time.Duration, rl Relay, target string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rl.WrapURL(target), nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", rl.Name(), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", rl.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", rl.Name(), resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", rl.Name(), err)
	}
	// Decode into a fresh value first: json.Unmarshal fills fields before
	// hitting a type mismatch, and a half-decoded attempt must not leak
	// into the next relay's result.
	fresh := reflect.New(reflect.TypeOf(out).Elem())
	if err := json.Unmarshal(body, fresh.Interface()); err != nil {
		return fmt.Errorf("%s: decode response: %w", rl.Name(), err)
	}
	reflect.ValueOf(out).Elem().Set(fresh.Elem())
	return nil
}
