package server

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Client talks to a Server over a pair of streams, typically the pipes of an
// `axserve serve` child process. Calls are serialized.
type Client struct {
	mu      sync.Mutex
	writer  io.Writer
	decoder *msgpack.Decoder
	seq     int
}

// NewClient wraps the server's input (w) and output (r) streams.
func NewClient(r io.Reader, w io.Writer) *Client {
	return &Client{writer: w, decoder: msgpack.NewDecoder(r)}
}

// WaitReady consumes the ready notice sent when the server starts.
func (c *Client) WaitReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var notice map[string]string
	if err := c.decoder.Decode(&notice); err != nil {
		return fmt.Errorf("read ready notice: %w", err)
	}
	if notice["status"] != "ready" {
		return fmt.Errorf("unexpected notice %v", notice)
	}
	return nil
}

// Complete requests suggestions for prefix. A server-side rejection comes
// back as a *RemoteError.
func (c *Client) Complete(prefix string, limit int) (*CompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := CompletionRequest{ID: c.nextID("req"), Prefix: prefix, Limit: limit}
	raw, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}

	// Both shapes share "c"; only errors carry "e".
	var probe struct {
		Error string `msgpack:"e"`
	}
	if err := msgpack.Unmarshal(raw, &probe); err == nil && probe.Error != "" {
		var errResponse CompletionError
		if err := msgpack.Unmarshal(raw, &errResponse); err != nil {
			return nil, err
		}
		return nil, &RemoteError{Message: errResponse.Error, Code: errResponse.Code}
	}

	var response CompletionResponse
	if err := msgpack.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// Catalog sends a catalog action.
func (c *Client) Catalog(action, namespace, name string) (*CatalogResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := CatalogRequest{ID: c.nextID("cat"), Action: action, Namespace: namespace, Name: name}
	var response CatalogResponse
	if err := c.call(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Config sends a config action. Nil values are left unchanged.
func (c *Client) Config(action string, maxPrefix *int, plainText *bool) (*ConfigResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := ConfigRequest{ID: c.nextID("cfg"), Action: action, MaxPrefix: maxPrefix, PlainText: plainText}
	var response ConfigResponse
	if err := c.call(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) call(req, response any) error {
	raw, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(raw, response)
}

func (c *Client) roundTrip(req any) (msgpack.RawMessage, error) {
	data, err := msgpack.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if _, err := c.writer.Write(data); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	raw, err := c.decoder.DecodeRaw()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func (c *Client) nextID(kind string) string {
	c.seq++
	return fmt.Sprintf("%s_%03d", kind, c.seq)
}

// RemoteError is a CompletionError received by a Client.
type RemoteError struct {
	Message string
	Code    int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}
