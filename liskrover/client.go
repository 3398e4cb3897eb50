package liskrover

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/chainrover/rover/log"
)

const pageLimit = 100

// Config configures the HTTPS REST client used to poll a pool of Lisk
// nodes. Nodes is the candidate set (a seed plus any peers discovered
// from it in the future); BannedPeers are excluded outright;
// RandomizeNodes picks a fresh live node from what remains on every
// failure instead of sticking to the first reachable one.
type Config struct {
	Nodes          []string
	RandomizeNodes bool
	BannedPeers    []string
	Timeout        time.Duration
}

// Client polls a Lisk node's HTTPS JSON REST API for blocks and their
// transactions. It shares no state with the Ethereum devp2p rover - C4
// through C8 are generic across both, but block retrieval is entirely
// different on the wire.
type Client struct {
	cfg   Config
	nodes []string
	http  *http.Client
	log   *log.RoverLog

	lock    sync.Mutex
	current int
}

// NewClient builds a Lisk REST client against cfg.Nodes, minus any banned.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	banned := make(map[string]bool, len(cfg.BannedPeers))
	for _, p := range cfg.BannedPeers {
		banned[p] = true
	}

	nodes := make([]string, 0, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		if !banned[n] {
			nodes = append(nodes, n)
		}
	}

	return &Client{
		cfg:   cfg,
		nodes: nodes,
		http:  &http.Client{Timeout: timeout},
		log:   log.GetLogger("liskrover", true),
	}
}

// baseURL returns the node currently selected for requests.
func (c *Client) baseURL() string {
	c.lock.Lock()
	defer c.lock.Unlock()

	if len(c.nodes) == 0 {
		return ""
	}
	return c.nodes[c.current%len(c.nodes)]
}

// rotate switches to a different node after a request failure: a random
// one if RandomizeNodes, otherwise the next one in list order.
func (c *Client) rotate() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if len(c.nodes) <= 1 {
		return
	}
	if c.cfg.RandomizeNodes {
		c.current = rand.Intn(len(c.nodes))
		return
	}
	c.current = (c.current + 1) % len(c.nodes)
}

// blocksEnvelope accepts both response shapes the Lisk API has used
// historically: {blocks:[...]} and {data:[...]}.
type blocksEnvelope struct {
	Blocks []wireBlock `json:"blocks"`
	Data   []wireBlock `json:"data"`
}

type txsEnvelope struct {
	Data []wireTxData `json:"data"`
}

// FetchBlocks retrieves up to pageLimit blocks starting at offset, in the
// order the node returns them (descending by height, per the Lisk API).
func (c *Client) FetchBlocks(ctx context.Context, limit, offset uint64) ([]*Block, error) {
	if limit > pageLimit {
		limit = pageLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.FormatUint(limit, 10))
	q.Set("offset", strconv.FormatUint(offset, 10))

	var env blocksEnvelope
	if err := c.get(ctx, "/blocks", q, &env); err != nil {
		return nil, err
	}

	wireBlocks := env.Blocks
	if len(wireBlocks) == 0 {
		wireBlocks = env.Data
	}

	blocks := make([]*Block, 0, len(wireBlocks))
	for _, wb := range wireBlocks {
		b := &Block{wire: wb}
		if wb.NumberOfTxs > 0 {
			txs, err := c.fetchTransactions(ctx, wb.ID)
			if err != nil {
				return nil, err
			}
			b.txs = txs
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

func (c *Client) fetchTransactions(ctx context.Context, blockID string) ([]*Transaction, error) {
	q := url.Values{}
	q.Set("blockId", blockID)
	q.Set("limit", strconv.Itoa(pageLimit))

	var env txsEnvelope
	if err := c.get(ctx, "/transactions", q, &env); err != nil {
		return nil, err
	}

	txs := make([]*Transaction, 0, len(env.Data))
	for _, wt := range env.Data {
		txs = append(txs, &Transaction{wire: wt})
	}
	return txs, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	base := c.baseURL()
	if base == "" {
		return fmt.Errorf("no lisk node available")
	}

	full := base + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.rotate()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.rotate()
		return fmt.Errorf("lisk API %s returned status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
