package ethrover

import (
	"math/big"
	"sync"
	"time"

	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/log"
	"github.com/chainrover/rover/metrics"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/p2p"
	"github.com/ethereum/go-ethereum/rlp"
)

type handshakeState int

const (
	stateConnected handshakeState = iota
	stateStatusSent
	stateForkProbe
	stateVerified
	stateRejected
	stateRefreshing
)

// BlockSink receives validated blocks from peer sessions. Implemented by
// the control loop (C8); Session never imports it directly to avoid a
// cyclic dependency, only the function values it needs.
type BlockSink interface {
	OnBlock(b *Block, fromInitialSync bool)
	OnBatchHeight(height uint64)
}

// Session is a single peer's ETH62/63 handshake, fork probe and message
// dispatch (C1). The pool keys verified sessions by peer identity; the
// session keeps a direct *Pool pointer and uses it for the shared block and
// tx caches, best-seen state, the request tracker and the verify/drop/
// invalid-block callbacks.
type Session struct {
	peer *p2p.Peer
	rw   p2p.MsgReadWriter
	log  *log.RoverLog

	networkID    uint64
	genesisHash  common.Hash
	bestHash     common.Hash
	bestHeight   uint64
	totalDiff    *big.Int

	lock           sync.Mutex
	state          handshakeState
	forkTimer      *time.Timer
	lastSeen       time.Time
	pendingHashes  []common.Hash
	pendingHeaders []*types.Header

	pool  *Pool
	sink  BlockSink
}

// NewSession constructs a session bound to one connected peer. Run must be
// called from the owning p2p.Protocol's Run callback.
func NewSession(peer *p2p.Peer, rw p2p.MsgReadWriter, pool *Pool, sink BlockSink, networkID uint64, genesisHash common.Hash) *Session {
	return &Session{
		peer:        peer,
		rw:          rw,
		log:         log.GetLogger("ethrover", true),
		networkID:   networkID,
		genesisHash: genesisHash,
		state:       stateConnected,
		pool:        pool,
		sink:        sink,
		lastSeen:    time.Now(),
	}
}

// Run drives the session's lifecycle until the peer disconnects or errors.
func (s *Session) Run(bestHash common.Hash, totalDiff *big.Int) error {
	if err := s.sendStatus(s.networkID, totalDiff, bestHash, s.genesisHash); err != nil {
		return err
	}
	s.transition(stateStatusSent)

	for {
		msg, err := s.rw.ReadMsg()
		if err != nil {
			s.onDisconnect(err)
			return err
		}

		if err := s.handleMsg(msg); err != nil {
			s.log.Warn("session error from peer %s: %v", s.peer.ID(), err)
			s.peer.Disconnect(p2p.DiscSubprotocolError)
			return err
		}
	}
}

// sendStatus sends the ETH STATUS handshake message.
func (s *Session) sendStatus(networkID uint64, td *big.Int, bestHash, genesisHash common.Hash) error {
	return p2p.Send(s.rw, StatusMsg, &statusData{
		ProtocolVersion: protocolVersion,
		NetworkID:       networkID,
		TD:              td.Bytes(),
		CurrentBlock:    bestHash,
		GenesisBlock:    genesisHash,
	})
}

// request sends a GET_BLOCK_HEADERS or GET_BLOCK_BODIES request.
func (s *Session) request(kind uint64, args interface{}) error {
	return p2p.Send(s.rw, kind, args)
}

// RequestHeaders implements syncer.PeerRequester: it asks this peer for
// count consecutive headers starting at from, walking backwards when
// reverse is set, as dispatched by the request tracker (C5).
func (s *Session) RequestHeaders(from, count uint64, reverse bool) error {
	return s.request(GetBlockHeadersMsg, &getBlockHeadersData{
		Number:  from,
		Amount:  count,
		Reverse: reverse,
	})
}

func (s *Session) transition(next handshakeState) {
	s.lock.Lock()
	s.state = next
	s.lock.Unlock()
}

func (s *Session) currentState() handshakeState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

func (s *Session) handleMsg(msg p2p.Msg) error {
	s.lock.Lock()
	s.lastSeen = time.Now()
	s.lock.Unlock()

	switch msg.Code {
	case StatusMsg:
		return s.onStatus(msg)
	case NewBlockHashesMsg:
		return s.onNewBlockHashes(msg)
	case NewBlockMsg:
		return s.onNewBlock(msg)
	case BlockHeadersMsg:
		return s.onBlockHeaders(msg)
	case BlockBodiesMsg:
		return s.onBlockBodies(msg)
	case TxMsg:
		return s.onTx(msg)
	case GetBlockHeadersMsg:
		return s.onGetBlockHeaders(msg)
	case GetBlockBodiesMsg, GetNodeDataMsg, GetReceiptsMsg:
		return p2p.Send(s.rw, msg.Code+1, []interface{}{})
	case ReceiptsMsg, NodeDataMsg:
		return nil
	default:
		s.log.Debug("dropping unhandled message code %d from %s", msg.Code, s.peer.ID())
		return nil
	}
}

func (s *Session) onStatus(msg p2p.Msg) error {
	var status statusData
	if err := msg.Decode(&status); err != nil {
		return err
	}

	if status.NetworkID != s.networkID || status.GenesisBlock != s.genesisHash {
		s.peer.Disconnect(p2p.DiscUselessPeer)
		return nil
	}

	if s.currentState() != stateStatusSent {
		return nil
	}

	s.transition(stateForkProbe)

	if err := s.request(GetBlockHeadersMsg, &getBlockHeadersData{Number: DAOForkBlock, Amount: 1}); err != nil {
		return err
	}

	s.lock.Lock()
	s.forkTimer = time.AfterFunc(chain.ForkProbeTimeout, func() {
		if s.currentState() == stateForkProbe {
			s.transition(stateRejected)
			s.peer.Disconnect(p2p.DiscUselessPeer)
		}
	})
	s.lock.Unlock()

	return nil
}

func (s *Session) onForkProbeReply(headers []*types.Header) {
	s.lock.Lock()
	if s.forkTimer != nil {
		s.forkTimer.Stop()
	}
	s.lock.Unlock()

	if len(headers) == 1 && headers[0].Hash() == DAOForkBlockHash {
		s.transition(stateVerified)
		s.pool.onPeerVerified(s.peer, s)
		time.AfterFunc(chain.PeerMaxAge, s.refresh)
		return
	}

	s.transition(stateRejected)
	s.peer.Disconnect(p2p.DiscUselessPeer)
}

func (s *Session) refresh() {
	if s.currentState() == stateVerified {
		s.transition(stateRefreshing)
		s.peer.Disconnect(p2p.DiscRequested)
	}
}

func (s *Session) onNewBlockHashes(msg p2p.Msg) error {
	var hashes []common.Hash
	if err := msg.Decode(&hashes); err != nil {
		return err
	}

	for _, h := range hashes {
		if s.pool.blockCache.Contains(h) {
			continue
		}

		s.lock.Lock()
		s.pendingHashes = append(s.pendingHashes, h)
		s.lock.Unlock()

		hash := h
		time.AfterFunc(chain.HeaderRateLimit, func() {
			s.request(GetBlockHeadersMsg, &getBlockHeadersData{Origin: hash, Amount: 1})
		})
	}

	return nil
}

func (s *Session) onNewBlock(msg p2p.Msg) error {
	var raw struct {
		Header *types.Header
		Body   *types.Body
	}
	if err := msg.Decode(&raw); err != nil {
		return err
	}

	if s.currentState() != stateVerified {
		return nil
	}

	b := &Block{Header: raw.Header, Body: raw.Body}
	ok, gap := Validate(b, s.pool.bestSeen(), true)
	if !ok {
		s.pool.onInvalidBlock(s)
		metrics.BlocksRejectedMeter.Mark(1)
		return nil
	}

	s.pool.blockCache.Add(b.Hash(), struct{}{})
	metrics.BlocksObservedMeter.Mark(1)
	s.sink.OnBlock(b, false)
	s.requestGapFill(gap)
	return nil
}

func (s *Session) onBlockHeaders(msg p2p.Msg) error {
	var headers []*types.Header
	if err := rlp.Decode(msg.Payload, &headers); err != nil {
		return err
	}

	if s.currentState() == stateForkProbe {
		s.onForkProbeReply(headers)
		return nil
	}

	if s.currentState() != stateVerified {
		return nil
	}

	for _, h := range headers {
		if s.pool.blockCache.Contains(h.Hash()) {
			continue
		}

		matched := s.pool.tracker != nil && s.pool.tracker.IsHeightRequested(h.Number.Uint64())
		if !matched {
			matched = s.popPendingHash(h.Hash())
		}

		if !matched {
			s.log.Debug("header %d from %s matches no pending request, dropping", h.Number.Uint64(), s.peer.ID())
			continue
		}

		s.lock.Lock()
		s.pendingHeaders = append(s.pendingHeaders, h)
		s.lock.Unlock()

		hash := h.Hash()
		time.AfterFunc(chain.HeaderRateLimit, func() {
			s.request(GetBlockBodiesMsg, getBlockBodiesData{hash})
		})
	}

	return nil
}

func (s *Session) popPendingHash(h common.Hash) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	for i, ph := range s.pendingHashes {
		if ph == h {
			s.pendingHashes = append(s.pendingHashes[:i], s.pendingHashes[i+1:]...)
			return true
		}
	}

	return false
}

func (s *Session) popPendingHeader() (*types.Header, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.pendingHeaders) == 0 {
		return nil, false
	}

	h := s.pendingHeaders[0]
	s.pendingHeaders = s.pendingHeaders[1:]
	return h, true
}

func (s *Session) onBlockBodies(msg p2p.Msg) error {
	var bodies []*types.Body
	if err := rlp.Decode(msg.Payload, &bodies); err != nil {
		return err
	}

	if len(bodies) != 1 {
		s.peer.Disconnect(p2p.DiscUselessPeer)
		return nil
	}

	header, ok := s.popPendingHeader()
	if !ok {
		return nil
	}

	b := &Block{Header: header, Body: bodies[0]}

	fromInitialSync := s.pool.tracker != nil && s.pool.tracker.IsHeightRequested(b.Height())

	ok, gap := Validate(b, s.pool.bestSeen(), !fromInitialSync)
	if !ok {
		s.peer.Disconnect(p2p.DiscUselessPeer)
		s.pool.onInvalidBlock(s)
		metrics.BlocksRejectedMeter.Mark(1)
		return nil
	}

	s.pool.blockCache.Add(b.Hash(), struct{}{})
	metrics.BlocksObservedMeter.Mark(1)
	s.sink.OnBlock(b, fromInitialSync)
	s.requestGapFill(gap)

	if fromInitialSync {
		s.sink.OnBatchHeight(b.Height())
	}

	return nil
}

// requestGapFill dispatches an immediate range request for a gap detected
// between this rover's previous best-seen height and a newly observed live
// block, satisfying the range-fill requirement that validateLiveDifficulty
// signals but does not itself act on.
func (s *Session) requestGapFill(gap *chain.Interval) {
	if gap == nil || s.pool.tracker == nil {
		return
	}
	s.pool.tracker.EnqueueImmediate(chain.Batch{Interval: *gap, Descending: false})
}

func (s *Session) onTx(msg p2p.Msg) error {
	var txs []*types.Transaction
	if err := msg.Decode(&txs); err != nil {
		return err
	}

	for _, tx := range txs {
		t := &Transaction{tx}
		if t.From() == (common.Address{}) {
			continue
		}
		s.pool.txCache.Add(tx.Hash(), struct{}{})
	}

	return nil
}

func (s *Session) onGetBlockHeaders(msg p2p.Msg) error {
	var req getBlockHeadersData
	if err := msg.Decode(&req); err != nil {
		return err
	}

	if req.Number == DAOForkBlock {
		return p2p.Send(s.rw, BlockHeadersMsg, []*types.Header{daoForkHeader})
	}

	return p2p.Send(s.rw, BlockHeadersMsg, []*types.Header{})
}

func (s *Session) onDisconnect(reason error) {
	s.transition(stateRejected)
	s.pool.onPeerDropped(s.peer)
}
