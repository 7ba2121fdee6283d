package table

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"sudooom.mahjong/internal/game/mahjong/analysis"
	"sudooom.mahjong/internal/game/mahjong/claim"
	"sudooom.mahjong/internal/game/mahjong/core"
)

// Config 牌桌配置
type Config struct {
	Seed       int64        // 随机种子，0 表示按时间生成
	Rules      Rules        // 规则开关
	HumanSeats []int        // 由玩家操作的座位，其余座位由 AI 操作
	Sink       EventSink    // 事件接收方，可为空
	Logger     *slog.Logger // 日志，可为空
}

// Offer 某个座位当前可执行的操作
type Offer struct {
	Seat    int
	Actions []Action
}

// Prompt 状态转换后的可执行操作集合
type Prompt struct {
	Phase  Phase
	Active int
	Offers []Offer
}

// Actions 返回指定座位的可执行操作
func (p Prompt) Actions(seat int) []Action {
	for _, o := range p.Offers {
		if o.Seat == seat {
			return o.Actions
		}
	}
	return nil
}

// Awaiting 需要行动的座位
func (p Prompt) Awaiting() []int {
	seats := make([]int, len(p.Offers))
	for i, o := range p.Offers {
		seats[i] = o.Seat
	}
	return seats
}

// Engine 牌桌状态机，是 GameState 唯一的写入方
// Engine 本身不是并发安全的，调用方需保证同一时刻只有一个状态转换
type Engine struct {
	state   *GameState
	deck    *core.DeckGenerator
	rules   Rules
	aiSeats [core.SeatCount]bool
	sink    EventSink
	logger  *slog.Logger
}

// NewEngine 创建牌桌状态机
func NewEngine(cfg Config) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "TableEngine")
	}

	e := &Engine{
		deck:   core.NewDeckGenerator(rand.New(rand.NewSource(seed))),
		rules:  cfg.Rules,
		sink:   cfg.Sink,
		logger: logger,
	}
	for seat := range e.aiSeats {
		e.aiSeats[seat] = !slices.Contains(cfg.HumanSeats, seat)
	}
	return e
}

// Rules 返回规则开关
func (e *Engine) Rules() Rules {
	return e.rules
}

// IsAI 座位是否由 AI 操作
func (e *Engine) IsAI(seat int) bool {
	return seat >= 0 && seat < core.SeatCount && e.aiSeats[seat]
}

// IsFinished 牌局是否结束
func (e *Engine) IsFinished() bool {
	return e.state != nil && e.state.IsFinished()
}

// Winner 赢家座位，-1 表示无
func (e *Engine) Winner() int {
	if e.state == nil {
		return -1
	}
	return e.state.Winner
}

// NewGame 重新开局：洗牌、发牌，庄家摸第一张牌
func (e *Engine) NewGame() (Prompt, error) {
	hands, wall := e.deck.Deal(e.deck.GenerateDeck(), core.SeatCount)

	st := &GameState{
		Wall:   wall,
		Phase:  PhaseDealing,
		Winner: -1,
	}
	for seat := range st.Players {
		st.Players[seat] = &Player{
			Seat:     seat,
			Wind:     core.SeatWind(seat),
			AI:       e.aiSeats[seat],
			Score:    core.StartingScore,
			Hand:     hands[seat],
			Melds:    []core.Meld{},
			Discards: []core.Tile{},
		}
	}
	e.state = st

	e.logger.Info("开始新牌局", "wall", len(st.Wall))
	e.emit(EventGameStarted, map[string]any{"dealer": 0, "wall": len(st.Wall)})

	e.draw(0, false)
	return e.settle()
}

// Discard 出牌
func (e *Engine) Discard(seat int, id core.TileID) (Prompt, error) {
	if err := e.checkTurn(seat, PhaseDiscarding); err != nil {
		return Prompt{}, err
	}
	for _, a := range e.state.Offers[seat] {
		if d, ok := a.(Discard); ok && d.Tile.ID == id {
			return e.apply(seat, a)
		}
	}
	return Prompt{}, core.ErrTileNotInHand.WithContext("seat", seat).WithContext("tile", int(id))
}

// Claim 选择一个胡/杠/碰/吃选项，option 为同类选项中的下标
// 出牌阶段的胡与杠分别对应自摸与暗杠/补杠
func (e *Engine) Claim(seat int, ct ClaimType, option int) (Prompt, error) {
	if err := e.checkSeat(seat); err != nil {
		return Prompt{}, err
	}

	index := 0
	for _, a := range e.state.Offers[seat] {
		if t, ok := ClaimTypeOf(a); ok && t == ct {
			if index == option {
				return e.apply(seat, a)
			}
			index++
		}
	}
	return Prompt{}, core.ErrNoSuchOption.
		WithContext("seat", seat).
		WithContext("claim", ct.String()).
		WithContext("option", option)
}

// Pass 放弃响应
func (e *Engine) Pass(seat int) (Prompt, error) {
	if err := e.checkTurn(seat, PhaseClaimWindow); err != nil {
		return Prompt{}, err
	}
	return e.apply(seat, Pass{})
}

// Sort 整理手牌，不影响规则
func (e *Engine) Sort(seat int) (Prompt, error) {
	if err := e.checkSeat(seat); err != nil {
		return Prompt{}, err
	}
	p := e.state.Players[seat]
	p.Hand = core.SortGrouped(p.Hand)
	e.emit(EventHandSorted, map[string]any{"seat": seat})
	return e.settle()
}

// Apply 执行一个当前可执行的动作，AI 通过该入口行动
func (e *Engine) Apply(seat int, action Action) (Prompt, error) {
	if err := e.checkSeat(seat); err != nil {
		return Prompt{}, err
	}
	return e.apply(seat, action)
}

// LegalActions 返回座位当前可执行的操作
func (e *Engine) LegalActions(seat int) []Action {
	if e.state == nil || seat < 0 || seat >= core.SeatCount {
		return nil
	}
	return slices.Clone(e.state.Offers[seat])
}

// Prompt 返回当前可执行操作集合
func (e *Engine) Prompt() Prompt {
	if e.state == nil {
		return Prompt{Phase: PhaseDealing}
	}
	p := Prompt{Phase: e.state.Phase, Active: e.state.Active}

	// 响应窗口内按距出牌者由近到远排列
	first := 0
	if e.state.Phase == PhaseClaimWindow && e.state.window != nil {
		first = core.NextSeat(e.state.window.discarder)
	}
	for i := 0; i < core.SeatCount; i++ {
		seat := (first + i) % core.SeatCount
		if offers := e.state.Offers[seat]; len(offers) > 0 {
			p.Offers = append(p.Offers, Offer{Seat: seat, Actions: slices.Clone(offers)})
		}
	}
	return p
}

func (e *Engine) checkSeat(seat int) error {
	if seat < 0 || seat >= core.SeatCount {
		return core.ErrInvalidSeat.WithContext("seat", seat)
	}
	if e.state == nil {
		return core.ErrWrongPhase.WithContext("phase", PhaseDealing.String())
	}
	return nil
}

func (e *Engine) checkTurn(seat int, phase Phase) error {
	if err := e.checkSeat(seat); err != nil {
		return err
	}
	if e.state.Phase != phase {
		return core.ErrWrongPhase.WithContext("phase", e.state.Phase.String())
	}
	if len(e.state.Offers[seat]) == 0 {
		if phase == PhaseClaimWindow && e.state.window != nil && e.state.window.responses[seat] != nil {
			return core.ErrAlreadyAnswer.WithContext("seat", seat)
		}
		return core.ErrNotYourTurn.WithContext("seat", seat)
	}
	return nil
}

// apply 校验动作属于当前选项后执行，校验失败时状态不变
func (e *Engine) apply(seat int, action Action) (Prompt, error) {
	var offered Action
	for _, a := range e.state.Offers[seat] {
		if SameAction(a, action) {
			offered = a
			break
		}
	}
	if offered == nil {
		return Prompt{}, core.ErrIllegalAction.
			WithContext("seat", seat).
			WithContext("action", action.Kind().String())
	}

	e.logger.Debug("处理玩家动作", "seat", seat, "action", offered.Kind().String())

	switch act := offered.(type) {
	case Discard:
		e.discard(seat, act.Tile)
	case DeclareWin:
		e.finishWin(seat, WinSelfDraw, -1, core.CloneTiles(e.state.Players[seat].Hand))
	case DeclareQuad:
		e.declareQuad(seat, act.Option)
	default:
		e.respond(seat, offered)
	}

	return e.settle()
}

// draw 摸牌，牌墙为空时流局
func (e *Engine) draw(seat int, replacement bool) {
	st := e.state
	st.Phase = PhaseDrawing
	st.Active = seat
	st.mustDiscard = false
	st.LastDrawn = nil

	if len(st.Wall) == 0 {
		st.Phase = PhaseFinished
		st.Winner = -1
		st.WinType = WinNone
		e.logger.Info("牌墙摸完，流局", "turn", st.Turn)
		e.emit(EventExhaustiveDraw, map[string]any{"turn": st.Turn})
		return
	}

	last := len(st.Wall) - 1
	tile := st.Wall[last]
	st.Wall = st.Wall[:last]

	p := st.Players[seat]
	p.Hand = append(p.Hand, tile)
	st.LastDrawn = &tile

	kind := EventTileDrawn
	if replacement {
		kind = EventReplacementDrawn
	}
	e.emit(kind, map[string]any{"seat": seat, "wall": len(st.Wall)})

	st.Phase = PhaseDiscarding
}

// discard 出牌并打开响应窗口，无人可响应时下家摸牌
func (e *Engine) discard(seat int, tile core.Tile) {
	st := e.state
	p := st.Players[seat]

	p.Hand = core.RemoveTileIDs(p.Hand, tile.ID)
	p.Discards = append(p.Discards, tile)
	st.Turn++
	st.LastDrawn = nil
	st.mustDiscard = false
	st.Pending = &PendingDiscard{Tile: tile, Seat: seat}

	e.emit(EventTileDiscarded, map[string]any{"seat": seat, "tile": tile})

	w := openClaimWindow(st, e.rules, seat, tile)
	if w.empty() {
		st.Pending = nil
		e.draw(core.NextSeat(seat), false)
		return
	}

	st.window = w
	st.Phase = PhaseClaimWindow
	e.emit(EventClaimWindowOpened, map[string]any{"seat": seat, "tile": tile, "seats": w.awaiting()})
}

// respond 记录响应，所有有资格的座位回复后裁决
func (e *Engine) respond(seat int, action Action) {
	st := e.state
	w := st.window
	w.responses[seat] = action

	if action.Kind() == ActPass {
		e.emit(EventClaimPassed, map[string]any{"seat": seat})
	}
	if !w.complete() {
		return
	}

	st.window = nil
	st.Pending = nil

	winner, best, ok := w.resolve()
	if !ok {
		e.draw(core.NextSeat(w.discarder), false)
		return
	}

	e.logger.Debug("响应裁决", "seat", winner, "action", best.Kind().String(), "discarder", w.discarder)

	switch act := best.(type) {
	case ClaimWinAction:
		hand := append(core.CloneTiles(st.Players[winner].Hand), act.Tile)
		e.finishWin(winner, WinDiscard, w.discarder, hand)
	case ClaimTripletAction:
		e.takeMeld(winner, w.discarder, core.MeldTriplet, core.QuadNone, act.Option.Tiles, act.Tile)
		st.Phase = PhaseDiscarding
		st.mustDiscard = true
	case ClaimSequenceAction:
		e.takeMeld(winner, w.discarder, core.MeldSequence, core.QuadNone,
			core.RemoveTileIDs(act.Option.Tiles, act.Tile.ID), act.Tile)
		st.Phase = PhaseDiscarding
		st.mustDiscard = true
	case ClaimQuadAction:
		e.takeMeld(winner, w.discarder, core.MeldQuad, core.QuadClaimed,
			core.RemoveTileIDs(act.Option.Tiles, act.Tile.ID), act.Tile)
		e.draw(winner, true)
	}
}

// takeMeld 从出牌者弃牌中取走被响应的牌，与手牌组成副露
func (e *Engine) takeMeld(seat, from int, kind core.MeldKind, quad core.QuadKind, handTiles []core.Tile, claimed core.Tile) {
	st := e.state
	p := st.Players[seat]
	discarder := st.Players[from]

	ids := make([]core.TileID, len(handTiles))
	for i, t := range handTiles {
		ids[i] = t.ID
	}
	p.Hand = core.RemoveTileIDs(p.Hand, ids...)

	if n := len(discarder.Discards); n > 0 && discarder.Discards[n-1].ID == claimed.ID {
		discarder.Discards = discarder.Discards[:n-1]
	}

	tiles := append(core.CloneTiles(handTiles), claimed)
	core.SortTiles(tiles)
	p.Melds = append(p.Melds, core.Meld{Kind: kind, Quad: quad, Tiles: tiles, From: from})

	st.Active = seat
	st.LastDrawn = nil
	e.emit(EventMeldClaimed, map[string]any{
		"seat":  seat,
		"from":  from,
		"kind":  kind.String(),
		"quad":  quad.String(),
		"tiles": tiles,
	})
}

// declareQuad 暗杠或补杠，随后补摸一张
func (e *Engine) declareQuad(seat int, opt claim.QuadOption) {
	p := e.state.Players[seat]

	switch opt.Kind {
	case core.QuadConcealed:
		ids := make([]core.TileID, len(opt.Tiles))
		for i, t := range opt.Tiles {
			ids[i] = t.ID
		}
		p.Hand = core.RemoveTileIDs(p.Hand, ids...)
		p.Melds = append(p.Melds, core.Meld{
			Kind:  core.MeldQuad,
			Quad:  core.QuadConcealed,
			Tiles: core.CloneTiles(opt.Tiles),
			From:  -1,
		})
	case core.QuadExtended:
		added := opt.Tiles[len(opt.Tiles)-1]
		p.Hand = core.RemoveTileIDs(p.Hand, added.ID)
		old := p.Melds[opt.Meld]
		p.Melds[opt.Meld] = core.Meld{
			Kind:  core.MeldQuad,
			Quad:  core.QuadExtended,
			Tiles: core.CloneTiles(opt.Tiles),
			From:  old.From,
		}
	}

	e.emit(EventQuadDeclared, map[string]any{
		"seat":  seat,
		"quad":  opt.Kind.String(),
		"tiles": opt.Tiles,
	})
	e.draw(seat, true)
}

// finishWin 和牌结束
func (e *Engine) finishWin(seat int, winType WinType, from int, hand []core.Tile) {
	st := e.state
	core.SortTiles(hand)

	st.Phase = PhaseFinished
	st.Active = seat
	st.Winner = seat
	st.WinType = winType
	st.WinningHand = hand
	st.Pending = nil
	st.window = nil

	e.logger.Info("玩家胡牌", "seat", seat, "winType", winType.String(), "from", from, "turn", st.Turn)
	e.emit(EventGameWon, map[string]any{
		"seat":    seat,
		"winType": winType.String(),
		"from":    from,
		"hand":    hand,
	})
}

// settle 计算新的可执行操作并检查不变式
func (e *Engine) settle() (Prompt, error) {
	e.computeOffers()
	if err := e.checkInvariants(); err != nil {
		e.logger.Error("牌局状态不一致", "error", err)
		return Prompt{}, err
	}
	return e.Prompt(), nil
}

// computeOffers 计算各座位当前可执行的操作
func (e *Engine) computeOffers() {
	st := e.state
	st.Offers = [core.SeatCount][]Action{}

	switch st.Phase {
	case PhaseDiscarding:
		p := st.Players[st.Active]
		var actions []Action

		if !st.mustDiscard {
			if analysis.CanWin(core.Counts(p.Hand), len(p.Melds), e.rules.SevenPairs) {
				actions = append(actions, DeclareWin{})
			}
			// 无牌不让杠
			if len(st.Wall) > 0 {
				for _, opt := range claim.CanClaimQuad(p.Hand, nil, claim.OriginOwnDraw) {
					actions = append(actions, DeclareQuad{Option: opt})
				}
				for _, opt := range claim.CanExtendQuad(p.Hand, p.Melds) {
					actions = append(actions, DeclareQuad{Option: opt})
				}
			}
		}

		for _, t := range p.Hand {
			actions = append(actions, Discard{Tile: t})
		}
		st.Offers[st.Active] = actions

	case PhaseClaimWindow:
		for _, seat := range st.window.awaiting() {
			st.Offers[seat] = st.window.offers[seat]
		}
	}
}

// checkInvariants 手牌张数、副露形状、牌的总数与唯一性
func (e *Engine) checkInvariants() error {
	st := e.state
	var seen [core.DeckSize]bool
	total := 0

	mark := func(tiles []core.Tile) error {
		for _, t := range tiles {
			if t.ID < 0 || int(t.ID) >= core.DeckSize || seen[t.ID] {
				return fmt.Errorf("tile %s duplicated or out of range", t)
			}
			seen[t.ID] = true
			total++
		}
		return nil
	}

	if err := mark(st.Wall); err != nil {
		return core.ErrMalformedHand.WithCause(err)
	}

	for seat, p := range st.Players {
		want := core.DealSize
		if (st.Phase == PhaseDiscarding && seat == st.Active) ||
			(st.Phase == PhaseFinished && st.WinType == WinSelfDraw && seat == st.Winner) {
			want = core.DealSize + 1
		}
		if size := p.effectiveSize(); size != want {
			return core.ErrMalformedHand.
				WithContext("seat", seat).
				WithContext("size", size).
				WithContext("want", want).
				WithContext("phase", st.Phase.String())
		}

		if err := mark(p.Hand); err != nil {
			return core.ErrMalformedHand.WithCause(err).WithContext("seat", seat)
		}
		if err := mark(p.Discards); err != nil {
			return core.ErrMalformedHand.WithCause(err).WithContext("seat", seat)
		}
		for _, m := range p.Melds {
			if !core.ValidMeld(m) {
				return core.ErrMalformedHand.WithContext("seat", seat).WithContext("meld", m.Kind.String())
			}
			if err := mark(m.Tiles); err != nil {
				return core.ErrMalformedHand.WithCause(err).WithContext("seat", seat)
			}
		}
	}

	if total != core.DeckSize {
		return core.ErrMalformedHand.WithContext("tiles", total)
	}
	return nil
}

func (e *Engine) emit(kind string, params map[string]any) {
	if e.sink == nil {
		return
	}
	e.sink.Publish(Event{Kind: kind, Params: params})
}
