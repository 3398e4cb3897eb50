package ethrover

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"math/rand"
	"net"
	"sync"

	"github.com/chainrover/rover/chain"
	roverCommon "github.com/chainrover/rover/common"
	roverErrors "github.com/chainrover/rover/common/errors"
	"github.com/chainrover/rover/event"
	"github.com/chainrover/rover/log"
	"github.com/chainrover/rover/metrics"
	"github.com/chainrover/rover/syncer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/p2p"
	"github.com/ethereum/go-ethereum/p2p/enode"
	lru "github.com/hashicorp/golang-lru"
	cmap "github.com/orcaman/concurrent-map"
)

const (
	portScanStart = 30304
	portScanEnd   = 33663
)

// Pool is the peer pool (C2): it owns the verified-peer map by peer
// identity, bootstraps devp2p discovery and RLPx, and serves peer
// selection for request dispatch. Each Session holds a pointer back to its
// Pool, so the pool and its sessions reference each other.
type Pool struct {
	server *p2p.Server

	verified cmap.ConcurrentMap // peer id hex -> *Session

	blockCache *lru.Cache
	txCache    *lru.Cache

	best    *chain.BestSeen
	tracker *syncer.Tracker

	networkID      uint64
	genesisHash    common.Hash

	sink BlockSink
	log  *log.RoverLog

	invalidStreak int
	lock          sync.Mutex
}

// Config configures the peer pool's bootstrap behaviour.
type Config struct {
	PrivateKey     *ecdsa.PrivateKey
	MaximumPeers   int
	BootstrapNodes []*enode.Node
	NetworkID      uint64
	GenesisHash    common.Hash
}

// NewPool constructs a peer pool, scanning for a free port in
// [30304,33663] for both UDP discovery and TCP RLPx and applying the
// startup jitter to maxPeers.
func NewPool(cfg Config, sink BlockSink) (*Pool, error) {
	port, err := scanFreePort()
	if err != nil {
		return nil, roverErrors.Get(roverErrors.ErrNoFreePort)
	}

	jitter := rand.Intn(19) - 9
	maxPeers := cfg.MaximumPeers + jitter
	if maxPeers < 1 {
		maxPeers = 1
	}

	p := &Pool{
		verified:    cmap.New(),
		blockCache:  roverCommon.MustNewCache(chain.BlockCacheSizeEthereum),
		txCache:     roverCommon.MustNewCache(chain.TxCacheSize),
		best:        &chain.BestSeen{},
		networkID:   cfg.NetworkID,
		genesisHash: cfg.GenesisHash,
		sink:        sink,
		log:         log.GetLogger("ethrover", true),
	}

	addr := fmt.Sprintf(":%d", port)

	p.server = &p2p.Server{
		Config: p2p.Config{
			PrivateKey:     cfg.PrivateKey,
			MaxPeers:       maxPeers,
			ListenAddr:     addr,
			BootstrapNodes: cfg.BootstrapNodes,
			Protocols:      []p2p.Protocol{p.protocol()},
			Name:           "rover-eth",
		},
	}

	return p, nil
}

// ParseBootNodes resolves boot node URLs into enode.Node records,
// skipping and logging any that fail to parse rather than failing
// startup over one bad entry.
func ParseBootNodes(urls []string) []*enode.Node {
	nodes := make([]*enode.Node, 0, len(urls))
	for _, u := range urls {
		n, err := enode.ParseV4(u)
		if err != nil {
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func scanFreePort() (int, error) {
	for port := portScanStart; port <= portScanEnd; port++ {
		addr := fmt.Sprintf(":%d", port)
		l, err := net.Listen("tcp", addr)
		if err != nil {
			continue
		}
		l.Close()
		return port, nil
	}

	return 0, fmt.Errorf("no free port in [%d,%d]", portScanStart, portScanEnd)
}

// SetTracker wires the request tracker after construction, resolving the
// Pool <-> Tracker construction cycle (the tracker needs a PeerSource,
// the pool's sessions need to query the tracker's requested-heights).
func (p *Pool) SetTracker(t *syncer.Tracker) {
	p.tracker = t
}

// Start launches the devp2p server.
func (p *Pool) Start() error {
	return p.server.Start()
}

// Stop shuts the server and all peer connections down.
func (p *Pool) Stop() {
	p.server.Stop()
}

func (p *Pool) protocol() p2p.Protocol {
	return p2p.Protocol{
		Name:    protocolName,
		Version: protocolVersion,
		Length:  protocolLength,
		Run: func(peer *p2p.Peer, rw p2p.MsgReadWriter) error {
			session := NewSession(peer, rw, p, p.sink, p.networkID, p.genesisHash)
			return session.Run(p.bestSeenHash(), p.bestSeenDifficulty())
		},
	}
}

func (p *Pool) bestSeen() *chain.BestSeen { return p.best }

// BestSeenHeight returns the highest height this rover has observed from a
// live peer block, used by the control loop to anchor resync planning.
func (p *Pool) BestSeenHeight() uint64 { return p.best.Height() }

// bestSeenHash and bestSeenDifficulty feed the rover's own STATUS
// announcement. The rover never builds a real chain, so it always
// announces its genesis as current head; peers still complete the
// handshake against it and proceed straight to the fork probe.
func (p *Pool) bestSeenHash() common.Hash { return p.genesisHash }

func (p *Pool) bestSeenDifficulty() *big.Int { return big.NewInt(1) }

func (p *Pool) onPeerVerified(peer *p2p.Peer, s *Session) {
	p.verified.Set(peer.ID().String(), s)
	metrics.PeersVerifiedCounter.Inc(1)
	event.PeerVerifiedEventManager.Fire(peer.ID().String())
}

func (p *Pool) onPeerDropped(peer *p2p.Peer) {
	if _, removed := p.verified.Pop(peer.ID().String()); removed {
		metrics.PeersDroppedMeter.Mark(1)
		event.PeerDroppedEventManager.Fire(peer.ID().String())
	}
}

func (p *Pool) onInvalidBlock(s *Session) {
	p.lock.Lock()
	p.invalidStreak++
	streak := p.invalidStreak
	p.lock.Unlock()

	if streak >= chain.MaxInvalidCount {
		p.log.Error("reached max invalid blocks (%d)", streak)
	}
}

// SelectPeers implements syncer.PeerSource: a uniformly random subset of
// k verified peers (any k >= chain.MinVerifiedPeers is acceptable per the
// spec contract; the source's own "all peers" selection is not required).
func (p *Pool) SelectPeers(k int) []syncer.PeerRequester {
	all := p.verifiedSessions()
	if len(all) < k {
		return nil
	}

	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	selected := make([]syncer.PeerRequester, 0, k)
	for i := 0; i < k && i < len(all); i++ {
		selected = append(selected, all[i])
	}
	return selected
}

func (p *Pool) verifiedSessions() []*Session {
	sessions := make([]*Session, 0, p.verified.Count())
	for item := range p.verified.IterBuffered() {
		sessions = append(sessions, item.Val.(*Session))
	}
	return sessions
}
