package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
)

// NodesQuery selects node entities by position. The positions are BigInt
// values, so they are sent as decimal strings.
const NodesQuery = "query nodes($positions: [BigInt!], $first: Int) " +
	"{ nodeEntities(first: $first, where: {position_in: $positions}) { id position hash } }"

// maxErrorBody limits how much of a failed response is carried in the error
const maxErrorBody = 512

// NodeEntity is a node as the indexer reports it, before validation.
type NodeEntity struct {
	ID       string `json:"id"`
	Position string `json:"position"`
	Hash     string `json:"hash"`
}

type QueryRequest struct {
	Query     string         `json:"query"`
	Variables QueryVariables `json:"variables"`
}

type QueryVariables struct {
	Positions []string `json:"positions"`
	First     int      `json:"first"`
}

type QueryError struct {
	Message string `json:"message"`
}

type QueryResponse struct {
	Data struct {
		NodeEntities []NodeEntity `json:"nodeEntities"`
	} `json:"data"`
	Errors []QueryError `json:"errors,omitempty"`
}

// NewQueryRequest builds the request body selecting positions.
func NewQueryRequest(positions []uint64) QueryRequest {
	req := QueryRequest{
		Query: NodesQuery,
		Variables: QueryVariables{
			Positions: make([]string, 0, len(positions)),
			First:     len(positions),
		},
	}
	for _, pos := range positions {
		req.Variables.Positions = append(req.Variables.Positions, strconv.FormatUint(pos, 10))
	}
	return req
}

// Client issues node queries against a single indexer endpoint.
type Client struct {
	log  logger.Logger
	url  string
	http *http.Client
	opts ClientOptions
}

func NewClient(log logger.Logger, url string, opts ...ClientOption) *Client {
	c := &Client{
		log: log,
		url: url,
		opts: ClientOptions{
			timeout: DefaultTimeout,
		},
	}
	for _, o := range opts {
		o(&c.opts)
	}
	c.http = c.opts.httpClient
	if c.http == nil {
		c.http = &http.Client{Timeout: c.opts.timeout}
	}
	return c
}

func (c *Client) URL() string { return c.url }

// QueryNodes fetches the entities at positions with exactly one request. The
// entities are returned as the indexer reported them, in whatever order it
// chose.
func (c *Client) QueryNodes(ctx context.Context, positions []uint64) ([]NodeEntity, error) {
	body, err := json.Marshal(NewQueryRequest(positions))
	if err != nil {
		return nil, fmt.Errorf("%w: encoding query: %v", ErrTransportFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	for k, vs := range c.opts.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportErr(ctx, err, len(positions))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(ctx, err, len(positions))
	}
	c.log.Debugf(
		"node query %s: %d positions, status %d, %d bytes in %v",
		requestID, len(positions), resp.StatusCode, len(data), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransportFailure, resp.StatusCode, string(data))
	}

	var qr QueryResponse
	if err = json.Unmarshal(data, &qr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(qr.Errors) > 0 {
		msgs := make([]string, 0, len(qr.Errors))
		for _, e := range qr.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("%w: %q", ErrQueryFailed, msgs)
	}
	return qr.Data.NodeEntities, nil
}

func classifyTransportErr(ctx context.Context, err error, n int) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %d positions: %v", ErrTimeout, n, err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %d positions: %v", ErrTimeout, n, err)
	}
	return fmt.Errorf("%w: %d positions: %v", ErrTransportFailure, n, err)
}
