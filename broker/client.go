// Package broker implements the session manager's two collaborators: a thin
// HTTP client over the external partition-admin proxy, and the sarama-backed
// Reader/Writer pair bound to one session's partition, per spec.md §4.G/§4.H.
package broker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lguibr/pongrelay/metrics"
)

// TransportFailure wraps any error reaching the broker admin proxy or the
// message broker itself, per spec.md §7. The session manager treats it as
// fatal for the in-progress operation. Use newTransportFailure to construct
// one so the occurrence is counted.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("broker: %s: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

func newTransportFailure(op string, err error) *TransportFailure {
	metrics.BrokerTransportFailuresTotal.WithLabelValues(op).Inc()
	return &TransportFailure{Op: op, Err: err}
}

// adminResponse is the {"data": "..."} envelope the admin proxy wraps every
// successful response in, per spec.md §6.
type adminResponse struct {
	Data string `json:"data"`
}

// PartitionManagerClient is a thin HTTP client over the broker admin proxy
// (out of scope per spec.md §1 — treated only through its contract).
type PartitionManagerClient struct {
	baseURL string
	http    *http.Client
}

// NewPartitionManagerClient builds a client against the admin proxy rooted
// at baseURL (e.g. "http://broker-admin:8080").
func NewPartitionManagerClient(baseURL string, httpClient *http.Client) *PartitionManagerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PartitionManagerClient{baseURL: baseURL, http: httpClient}
}

// AddPartition allocates a fresh partition by asking the proxy to increment
// its counter, and returns the partition count *before* the increment — the
// caller uses count-1 as the zero-based index for the new session, per
// spec.md §4.G.
func (c *PartitionManagerClient) AddPartition() (uint32, error) {
	resp, err := c.http.Post(c.baseURL+"/add_partition", "application/json", nil)
	if err != nil {
		return 0, newTransportFailure("add_partition", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, newTransportFailure("add_partition", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out adminResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, newTransportFailure("add_partition", err)
	}

	prevCount, err := strconv.ParseUint(out.Data, 10, 32)
	if err != nil {
		return 0, newTransportFailure("add_partition", fmt.Errorf("malformed count %q: %w", out.Data, err))
	}
	return uint32(prevCount), nil
}

// CreateTopic asks the proxy to create topic name, tolerating a topic that
// already exists as success.
func (c *PartitionManagerClient) CreateTopic(name string) error {
	q := url.Values{"topic": {name}}
	resp, err := c.http.Post(c.baseURL+"/create_topic?"+q.Encode(), "application/json", nil)
	if err != nil {
		return newTransportFailure("create_topic", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return newTransportFailure("create_topic", fmt.Errorf("missing topic parameter"))
	default:
		return newTransportFailure("create_topic", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// Health checks the admin proxy's liveness.
func (c *PartitionManagerClient) Health() error {
	resp, err := c.http.Get(c.baseURL + "/health_check")
	if err != nil {
		return newTransportFailure("health_check", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newTransportFailure("health_check", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}
