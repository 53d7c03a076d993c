// Package lobby implements the per-lobby actor: a single goroutine owning all
// lobby state, processing one message at a time, and fanning results out
// through its broadcaster. No locks are involved; serialization comes from
// single ownership.
package lobby

import (
	"sort"

	"github.com/FilPag/BalatroMultiplayerServer/internal/game"
	"github.com/FilPag/BalatroMultiplayerServer/internal/netutil"
	"github.com/FilPag/BalatroMultiplayerServer/internal/score"
)

// RoundResult is one player's verdict for a finished round.
type RoundResult struct {
	PlayerID string
	Won      bool
}

// Lobby is the state owned by a lobby actor. It is never shared; everything
// here is mutated exclusively from the actor goroutine.
type Lobby struct {
	Code       string
	Started    bool
	Stage      int32
	BossChips  score.Number
	Options    game.LobbyOptions
	players    map[string]*game.ClientLobbyEntry
	maxPlayers uint8
}

// New creates a lobby configured with the game mode's defaults and the
// client-chosen ruleset.
func New(code, ruleset string, mode game.GameMode) *Lobby {
	options := mode.DefaultOptions()
	options.Ruleset = ruleset
	return &Lobby{
		Code:       code,
		Started:    false,
		Stage:      0,
		BossChips:  score.Zero(),
		Options:    options,
		players:    make(map[string]*game.ClientLobbyEntry),
		maxPlayers: mode.MaxPlayers(),
	}
}

// Player returns the entry for a player id, or nil.
func (l *Lobby) Player(playerID string) *game.ClientLobbyEntry {
	return l.players[playerID]
}

// PlayerCount returns the number of players present.
func (l *Lobby) PlayerCount() int {
	return len(l.players)
}

// PlayerIDs returns all player ids in lexicographic order. Deterministic
// iteration keeps host election and Clash damage ranking reproducible.
func (l *Lobby) PlayerIDs() []string {
	ids := make([]string, 0, len(l.players))
	for id := range l.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsFull reports whether the lobby is at the mode's capacity.
func (l *Lobby) IsFull() bool {
	return len(l.players) >= int(l.maxPlayers)
}

// MaxPlayers returns the mode capacity fixed at creation.
func (l *Lobby) MaxPlayers() uint8 {
	return l.maxPlayers
}

// AddPlayer inserts a player. The first player in becomes host and starts
// ready; everyone starts with the configured lives.
func (l *Lobby) AddPlayer(playerID string, profile game.ClientProfile) game.ClientLobbyEntry {
	isHost := len(l.players) == 0
	entry := game.NewLobbyEntry(profile, l.Code, isHost, l.Options.StartingLives)
	l.players[playerID] = &entry
	return entry
}

// RemovePlayer deletes a player, returning the removed entry or nil.
func (l *Lobby) RemovePlayer(playerID string) *game.ClientLobbyEntry {
	entry, ok := l.players[playerID]
	if !ok {
		return nil
	}
	delete(l.players, playerID)
	return entry
}

// PromoteNewHost makes the player with the smallest id the host, ready, and
// returns the id. Returns "" when the lobby is empty.
func (l *Lobby) PromoteNewHost() string {
	ids := l.PlayerIDs()
	if len(ids) == 0 {
		return ""
	}
	entry := l.players[ids[0]]
	entry.LobbyState.IsHost = true
	entry.LobbyState.IsReady = true
	return ids[0]
}

// IsPlayerHost reports whether the player exists and is host.
func (l *Lobby) IsPlayerHost(playerID string) bool {
	entry, ok := l.players[playerID]
	return ok && entry.LobbyState.IsHost
}

// ResetReadyStates clears every ready flag.
func (l *Lobby) ResetReadyStates() {
	for _, entry := range l.players {
		entry.LobbyState.IsReady = false
	}
}

// ResetReadyStatesToHostOnly leaves only the host ready.
func (l *Lobby) ResetReadyStatesToHostOnly() {
	for _, entry := range l.players {
		entry.LobbyState.IsReady = entry.LobbyState.IsHost
	}
}

// SetPlayerReady updates one player's ready flag.
func (l *Lobby) SetPlayerReady(playerID string, isReady bool) {
	if entry, ok := l.players[playerID]; ok {
		entry.LobbyState.IsReady = isReady
	}
}

// CollectReadyStates snapshots every player's ready flag.
func (l *Lobby) CollectReadyStates() map[string]bool {
	states := make(map[string]bool, len(l.players))
	for id, entry := range l.players {
		states[id] = entry.LobbyState.IsReady
	}
	return states
}

// AllInGameReady reports whether every in-game player is ready. False when
// nobody is in-game.
func (l *Lobby) AllInGameReady() bool {
	any := false
	for _, entry := range l.players {
		if !entry.LobbyState.InGame {
			continue
		}
		any = true
		if !entry.LobbyState.IsReady {
			return false
		}
	}
	return any
}

// ResetGameStates wipes every player's round state and sets their in-game
// flag.
func (l *Lobby) ResetGameStates(inGame bool) {
	for _, entry := range l.players {
		entry.ResetForGame(l.Options.StartingLives)
		entry.LobbyState.InGame = inGame
	}
}

// StartGame flips the lobby into a running game. A "random" seed is replaced
// with a server-generated time-seeded one unless every client rolls its own.
func (l *Lobby) StartGame() {
	l.Started = true
	if !l.Options.DifferentSeeds && l.Options.CustomSeed == "random" {
		l.Options.CustomSeed = netutil.TimeSeededString(8)
	}
	l.ResetGameStates(true)
}

// StopGame resets the lobby back to its pre-game state.
func (l *Lobby) StopGame() {
	l.Started = false
	l.ResetGameStates(false)
	l.Stage = 0
	l.BossChips = score.Zero()
	l.Options.CustomSeed = "random"
}

// ResetScores rewinds every player's per-blind counters.
func (l *Lobby) ResetScores() {
	for _, entry := range l.players {
		entry.GameState.Score = score.Zero()
		entry.GameState.HandsLeft = entry.GameState.HandsMax
		entry.GameState.DiscardsLeft = entry.GameState.DiscardsMax
	}
}

// TotalScore sums every player's current score.
func (l *Lobby) TotalScore() score.Number {
	acc := score.Zero()
	for _, entry := range l.players {
		acc = acc.Add(entry.GameState.Score)
	}
	return acc
}

// AllPlayersDone reports whether every in-game player has exhausted their
// hands.
func (l *Lobby) AllPlayersDone() bool {
	for _, entry := range l.players {
		if entry.LobbyState.InGame && entry.GameState.HandsLeft != 0 {
			return false
		}
	}
	return true
}

// AlivePlayerCount counts in-game players with lives remaining.
func (l *Lobby) AlivePlayerCount() int {
	count := 0
	for _, entry := range l.players {
		if entry.LobbyState.InGame && entry.GameState.Lives > 0 {
			count++
		}
	}
	return count
}

// InGamePlayerCount counts players currently marked in-game.
func (l *Lobby) InGamePlayerCount() int {
	count := 0
	for _, entry := range l.players {
		if entry.LobbyState.InGame {
			count++
		}
	}
	return count
}

// IsSomeoneDead reports whether any in-game player has zero lives.
func (l *Lobby) IsSomeoneDead() bool {
	for _, entry := range l.players {
		if entry.LobbyState.InGame && entry.GameState.Lives == 0 {
			return true
		}
	}
	return false
}

// AllPlayersDead reports whether every player has zero lives.
func (l *Lobby) AllPlayersDead() bool {
	for _, entry := range l.players {
		if entry.GameState.Lives > 0 {
			return false
		}
	}
	return true
}

// MaxFurthestBlind returns the player holding the highest furthest_blind,
// smallest id winning ties, plus the blind value. Empty lobby returns "", 0.
func (l *Lobby) MaxFurthestBlind() (string, uint32) {
	bestID := ""
	bestBlind := uint32(0)
	for _, id := range l.PlayerIDs() {
		blind := l.players[id].GameState.FurthestBlind
		if bestID == "" || blind > bestBlind {
			bestID = id
			bestBlind = blind
		}
	}
	return bestID, bestBlind
}

// InGameStatuses snapshots every player's in-game flag.
func (l *Lobby) InGameStatuses() map[string]bool {
	statuses := make(map[string]bool, len(l.players))
	for id, entry := range l.players {
		statuses[id] = entry.LobbyState.InGame
	}
	return statuses
}

// InGamePlayerIDs returns in-game player ids in lexicographic order.
func (l *Lobby) InGamePlayerIDs() []string {
	ids := make([]string, 0, len(l.players))
	for _, id := range l.PlayerIDs() {
		if l.players[id].LobbyState.InGame {
			ids = append(ids, id)
		}
	}
	return ids
}

// DetermineRoundOutcome adjudicates the finished round per the lobby's game
// mode. A nil result means the round cannot be judged (too few players).
func (l *Lobby) DetermineRoundOutcome() []RoundResult {
	switch l.Options.GameMode {
	case game.CoopSurvival:
		// The whole team shares one verdict against the boss.
		won := l.TotalScore().Greater(l.BossChips)
		results := make([]RoundResult, 0, len(l.players))
		for _, id := range l.PlayerIDs() {
			results = append(results, RoundResult{PlayerID: id, Won: won})
		}
		return results
	case game.Clash:
		ids := l.InGamePlayerIDs()
		if len(ids) == 0 {
			return nil
		}
		// Score descending, id ascending on ties, so loser ranks (and with
		// them the damage ladder) are reproducible.
		sort.SliceStable(ids, func(i, j int) bool {
			return l.players[ids[i]].GameState.Score.Greater(l.players[ids[j]].GameState.Score)
		})
		topScore := l.players[ids[0]].GameState.Score
		results := make([]RoundResult, 0, len(ids))
		for _, id := range ids {
			won := l.players[id].GameState.Score.Cmp(topScore) == 0
			results = append(results, RoundResult{PlayerID: id, Won: won})
		}
		return results
	case game.Survival:
		// Blind progress decides; scores are only relayed for display.
		_, maxBlind := l.MaxFurthestBlind()
		results := make([]RoundResult, 0, len(l.players))
		for _, id := range l.PlayerIDs() {
			won := l.players[id].GameState.FurthestBlind == maxBlind
			results = append(results, RoundResult{PlayerID: id, Won: won})
		}
		return results
	default:
		if len(l.players) < 2 {
			return nil
		}
		var topScore score.Number
		first := true
		for _, entry := range l.players {
			if first || entry.GameState.Score.Greater(topScore) {
				topScore = entry.GameState.Score
				first = false
			}
		}
		results := make([]RoundResult, 0, len(l.players))
		for _, id := range l.PlayerIDs() {
			won := l.players[id].GameState.Score.Cmp(topScore) == 0
			results = append(results, RoundResult{PlayerID: id, Won: won})
		}
		return results
	}
}

// ProcessRoundOutcome applies the mode's life-loss policy to a round verdict.
// All subtraction saturates at zero.
func (l *Lobby) ProcessRoundOutcome(results []RoundResult) {
	switch l.Options.GameMode {
	case game.CoopSurvival:
		anyLost := false
		for _, r := range results {
			if !r.Won {
				anyLost = true
				break
			}
		}
		if !anyLost {
			return
		}
		// One failure costs the whole team a life.
		for _, entry := range l.players {
			entry.GameState.Lives = saturatingSub(entry.GameState.Lives, 1)
		}
	case game.Clash:
		loserRank := 0
		for _, r := range results {
			if r.Won {
				continue
			}
			if entry, ok := l.players[r.PlayerID]; ok {
				damage := game.ClashStageDamage(l.Stage) + uint8(loserRank) + 1
				entry.GameState.Lives = saturatingSub(entry.GameState.Lives, damage)
				loserRank++
			}
		}
		l.Stage++
	default:
		for _, r := range results {
			if r.Won {
				continue
			}
			if entry, ok := l.players[r.PlayerID]; ok {
				entry.GameState.Lives = saturatingSub(entry.GameState.Lives, 1)
			}
		}
	}
}

// Snapshot copies the lobby into its wire representation.
func (l *Lobby) Snapshot() game.LobbyData {
	players := make(map[string]game.ClientLobbyEntry, len(l.players))
	for id, entry := range l.players {
		players[id] = *entry
	}
	return game.LobbyData{
		Code:         l.Code,
		Started:      l.Started,
		Stage:        l.Stage,
		BossChips:    l.BossChips,
		LobbyOptions: l.Options,
		Players:      players,
		MaxPlayers:   l.maxPlayers,
	}
}

func saturatingSub(lives, damage uint8) uint8 {
	if damage >= lives {
		return 0
	}
	return lives - damage
}
