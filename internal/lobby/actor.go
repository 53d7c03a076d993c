package lobby

import (
	"github.com/sirupsen/logrus"

	"github.com/FilPag/BalatroMultiplayerServer/internal/game"
	"github.com/FilPag/BalatroMultiplayerServer/internal/messages"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/c2s"
	"github.com/FilPag/BalatroMultiplayerServer/internal/protocol/s2c"
)

// Actor binds a Lobby to its broadcaster and inbox. One goroutine per lobby
// runs Actor.Run; everything below executes only on that goroutine.
type Actor struct {
	lobby  *Lobby
	bc     *Broadcaster
	hostID string
	log    *logrus.Entry
}

// Run is the lobby actor loop. It consumes the inbox until the last player
// leaves, then announces LobbyShutdown through the channel carried by the
// final ClientLeave and exits.
func Run(code, ruleset string, mode game.GameMode, inbox <-chan messages.LobbyMessage, logger *logrus.Logger) {
	log := logger.WithFields(logrus.Fields{
		"lobby": code,
		"mode":  mode.String(),
	})
	a := &Actor{
		lobby: New(code, ruleset, mode),
		bc:    NewBroadcaster(log),
		log:   log,
	}
	log.WithField("ruleset", ruleset).Info("Lobby started")

	for msg := range inbox {
		switch m := msg.(type) {
		case messages.ClientJoin:
			a.handleJoin(m)
		case messages.ClientLeave:
			if a.handleLeave(m) {
				log.Debug("Lobby task ended")
				return
			}
		case messages.ClientAction:
			a.handleAction(m.ClientID, m.Action)
		}
	}
	log.Debug("Lobby inbox closed")
}

// handleJoin admits a player or rejects with an error on their writer
// channel. Joining a running game is refused outright.
func (a *Actor) handleJoin(m messages.ClientJoin) {
	if a.lobby.Started {
		sendError(m.WriterTx, "Lobby is already started")
		return
	}
	if a.lobby.IsFull() {
		sendError(m.WriterTx, "Lobby is full")
		return
	}

	a.bc.Add(m.ClientID, m.WriterTx)
	entry := a.lobby.AddPlayer(m.ClientID, m.Profile)
	if entry.LobbyState.IsHost {
		a.hostID = m.ClientID
	}

	a.bc.SendTo(m.ClientID, &s2c.JoinedLobby{
		PlayerID:  m.ClientID,
		LobbyData: a.lobby.Snapshot(),
	})
	a.bc.BroadcastExcept(m.ClientID, &s2c.PlayerJoinedLobby{Player: entry})

	a.log.WithField("player", m.ClientID).Debug("Player joined lobby")
}

// handleLeave removes a player, reporting true when the lobby is empty and
// the actor should exit.
func (a *Actor) handleLeave(m messages.ClientLeave) bool {
	a.bc.Remove(m.ClientID)
	leaving := a.lobby.RemovePlayer(m.ClientID)
	if leaving == nil {
		return false
	}

	if a.lobby.PlayerCount() == 0 {
		m.CoordinatorTx <- messages.LobbyShutdown{LobbyCode: a.lobby.Code}
		return true
	}

	if leaving.LobbyState.IsHost {
		if newHostID := a.lobby.PromoteNewHost(); newHostID != "" {
			a.hostID = newHostID
		}
	}

	a.bc.Broadcast(&s2c.PlayerLeftLobby{PlayerID: m.ClientID, HostID: a.hostID})
	a.log.WithField("player", m.ClientID).Debug("Player left lobby")

	// A running game cannot continue below two participants.
	if a.lobby.Started && a.lobby.InGamePlayerCount() < 2 {
		a.stopGame()
	}
	return false
}

// handleAction is the in-lobby state machine: every forwarded client action
// lands here, already serialized by the actor loop.
func (a *Actor) handleAction(playerID string, action c2s.Message) {
	switch m := action.(type) {
	case *c2s.SetReady:
		a.handleSetReady(playerID, m.IsReady)
	case *c2s.PlayHand:
		a.handlePlayHand(playerID, m)
	case *c2s.Discard:
		a.updatePlayerAndBroadcast(playerID, true, func(entry *game.ClientLobbyEntry) {
			if entry.GameState.DiscardsLeft > 0 {
				entry.GameState.DiscardsLeft--
			}
		})
	case *c2s.FailRound:
		a.log.WithField("player", playerID).Debug("Player failed round")
		a.applyFailPenalty(playerID)
	case *c2s.FailTimer:
		a.log.WithField("player", playerID).Debug("Player failed timer")
		a.applyFailPenalty(playerID)
		a.bc.Broadcast(&s2c.PauseAnteTimer{Time: uint32(a.lobby.Options.TimerBaseSeconds)})
	case *c2s.StartGame:
		a.handleStartGame(playerID, m)
	case *c2s.StopGame:
		a.stopGame()
	case *c2s.UpdateLobbyOptions:
		a.handleUpdateLobbyOptions(playerID, m.Options)
	case *c2s.SetBossBlind:
		a.handleSetBossBlind(playerID, m)
	case *c2s.SetFurthestBlind:
		a.handleSetFurthestBlind(playerID, m.Blind)
	case *c2s.Skip:
		a.updatePlayerAndBroadcast(playerID, false, func(entry *game.ClientLobbyEntry) {
			entry.GameState.Skips++
			entry.GameState.FurthestBlind = m.Blind
		})
	case *c2s.SetLocation:
		a.updatePlayerAndBroadcast(playerID, false, func(entry *game.ClientLobbyEntry) {
			entry.GameState.Location = m.Location
		})
	case *c2s.UpdateHandsAndDiscards:
		a.updatePlayerAndBroadcast(playerID, false, func(entry *game.ClientLobbyEntry) {
			entry.GameState.HandsMax = m.HandsMax
			entry.GameState.DiscardsMax = m.DiscardsMax
		})
	case *c2s.SendPlayerDeck:
		a.bc.BroadcastExcept(playerID, &s2c.ReceivePlayerDeck{PlayerID: playerID, Deck: m.Deck})
	case *c2s.SendPlayerJokers:
		a.bc.BroadcastExcept(playerID, &s2c.ReceivePlayerJokers{PlayerID: playerID, Jokers: m.Jokers})
	case *c2s.SendPhantom:
		a.bc.BroadcastExcept(playerID, &s2c.SendPhantom{Key: m.Key})
	case *c2s.RemovePhantom:
		a.bc.BroadcastExcept(playerID, &s2c.RemovePhantom{Key: m.Key})
	case *c2s.Asteroid:
		a.bc.SendTo(m.Target, &s2c.Asteroid{Sender: playerID})
	case *c2s.LetsGoGamblingNemesis:
		a.bc.BroadcastExcept(playerID, &s2c.LetsGoGamblingNemesis{})
	case *c2s.EatPizza:
		a.bc.BroadcastExcept(playerID, &s2c.EatPizza{Discards: m.Discards})
	case *c2s.SoldJoker:
		a.bc.BroadcastExcept(playerID, &s2c.SoldJoker{})
	case *c2s.SpentLastShop:
		if entry := a.lobby.Player(playerID); entry != nil {
			entry.GameState.SpentInShop = append(entry.GameState.SpentInShop, m.Amount)
		}
		a.bc.Broadcast(&s2c.SpentLastShop{PlayerID: playerID, Amount: m.Amount})
	case *c2s.StartAnteTimer:
		a.bc.BroadcastExcept(playerID, &s2c.StartAnteTimer{Time: m.Time})
	case *c2s.PauseAnteTimer:
		a.bc.BroadcastExcept(playerID, &s2c.PauseAnteTimer{Time: m.Time})
	case *c2s.SendMoney:
		a.bc.SendTo(m.PlayerID, &s2c.ReceivedMoney{})
	case *c2s.Magnet:
		a.bc.BroadcastExcept(playerID, &s2c.Magnet{})
	case *c2s.MagnetResponse:
		a.bc.BroadcastExcept(playerID, &s2c.MagnetResponse{Key: m.Key})
	case *c2s.ReturnToLobby:
		a.log.WithField("player", playerID).Debug("Player returned to lobby")
	default:
		a.log.WithFields(logrus.Fields{
			"player": playerID,
			"action": action.Action(),
		}).Debug("Unhandled lobby action")
	}
}

// updatePlayerAndBroadcast mutates one player's entry then fans out their
// game state, optionally excluding the player themselves.
func (a *Actor) updatePlayerAndBroadcast(playerID string, excludePlayer bool, update func(*game.ClientLobbyEntry)) {
	entry := a.lobby.Player(playerID)
	if entry == nil {
		return
	}
	update(entry)
	a.broadcastGameStateUpdate(playerID, excludePlayer)
}

func (a *Actor) handleSetReady(playerID string, isReady bool) {
	a.lobby.SetPlayerReady(playerID, isReady)
	if a.lobby.Started {
		if a.lobby.AllInGameReady() {
			a.startOnlineBlind()
		}
		return
	}
	a.broadcastReadyStatesExcept(playerID)
}

func (a *Actor) handlePlayHand(playerID string, m *c2s.PlayHand) {
	entry := a.lobby.Player(playerID)
	if entry == nil {
		return
	}
	a.log.WithFields(logrus.Fields{
		"player":     playerID,
		"score":      m.Score.String(),
		"hands_left": m.HandsLeft,
	}).Debug("Player played hand")

	entry.GameState.Score = entry.GameState.Score.Add(m.Score)
	if entry.GameState.Score.Greater(entry.GameState.HighestScore) {
		entry.GameState.HighestScore = entry.GameState.Score
	}
	entry.GameState.HandsLeft = m.HandsLeft

	a.broadcastGameStateUpdate(playerID, true)
	a.evaluateOnlineRound()
}

func (a *Actor) handleStartGame(playerID string, m *c2s.StartGame) {
	if !a.lobby.IsPlayerHost(playerID) {
		return
	}
	a.lobby.StartGame()
	a.log.WithFields(logrus.Fields{
		"seed":  a.lobby.Options.CustomSeed,
		"stake": m.Stake,
	}).Info("Game started")

	a.bc.Broadcast(&s2c.ResetPlayers{Players: a.playersList()})
	a.bc.Broadcast(&s2c.GameStarted{Seed: a.lobby.Options.CustomSeed, Stake: m.Stake})
	a.broadcastReadyStates()
	a.broadcastInGameStatuses()
}

// stopGame resets the lobby out of a running game, from any trigger: an
// explicit stopGame action or the in-game population dropping below two.
func (a *Actor) stopGame() {
	a.lobby.StopGame()
	a.bc.Broadcast(&s2c.GameStopped{})
	a.lobby.ResetReadyStatesToHostOnly()
	a.broadcastReadyStates()
	a.broadcastInGameStatuses()
	a.log.Info("Game stopped")
}

func (a *Actor) handleUpdateLobbyOptions(playerID string, options game.LobbyOptions) {
	a.lobby.Options = options
	a.lobby.ResetReadyStatesToHostOnly()
	a.broadcastReadyStatesExcept(playerID)
	a.bc.BroadcastExcept(playerID, &s2c.UpdateLobbyOptions{Options: a.lobby.Options})
}

func (a *Actor) handleSetBossBlind(playerID string, m *c2s.SetBossBlind) {
	if !a.lobby.IsPlayerHost(playerID) {
		return
	}
	a.log.WithFields(logrus.Fields{
		"key":   m.Key,
		"chips": m.Chips.String(),
	}).Debug("Boss blind set")
	a.lobby.BossChips = m.Chips
	a.bc.BroadcastExcept(playerID, &s2c.SetBossBlind{Key: m.Key})
}

func (a *Actor) handleSetFurthestBlind(playerID string, blind uint32) {
	a.updatePlayerAndBroadcast(playerID, false, func(entry *game.ClientLobbyEntry) {
		entry.GameState.FurthestBlind = blind
	})
	// Survival can end on blind progress alone: a sole survivor holding the
	// lobby-max blind wins without another scoring round.
	if a.lobby.Options.GameMode == game.Survival && a.lobby.Started {
		if a.checkAndHandleGameOver() {
			a.finishGameOver()
			a.broadcastInGameStatuses()
		}
	}
}

// applyFailPenalty handles a client-reported failure (failRound/failTimer):
// life loss when the ruleset says so, then life updates and the game-over
// check.
func (a *Actor) applyFailPenalty(playerID string) {
	if a.lobby.Options.DeathOnRoundLoss {
		a.lobby.ProcessRoundOutcome([]RoundResult{{PlayerID: playerID, Won: false}})
	}
	a.broadcastLifeUpdates(playerID)
	if a.checkAndHandleGameOver() {
		a.finishGameOver()
		a.broadcastInGameStatuses()
	}
}

// evaluateOnlineRound adjudicates once every in-game player is out of hands.
// Re-entry is harmless: a round that continues the game refills hands_left,
// and a round that ends it clears Started, so a second call before any new
// play is a no-op.
func (a *Actor) evaluateOnlineRound() {
	if !a.lobby.Started || !a.lobby.AllPlayersDone() {
		return
	}
	a.log.Debug("Evaluating online round")

	results := a.lobby.DetermineRoundOutcome()
	if results == nil && a.lobby.PlayerCount() < 2 {
		a.log.Error("Not enough players to evaluate round")
	}
	a.lobby.ProcessRoundOutcome(results)

	if !a.checkAndHandleGameOver() {
		a.lobby.ResetScores()
		for _, r := range results {
			a.bc.SendTo(r.PlayerID, &s2c.EndPvp{Won: r.Won})
		}
	} else {
		a.finishGameOver()
	}
	a.broadcastAllGameStates()
	a.broadcastInGameStatuses()
}

// finishGameOver rewinds ready state after a decided game; the lobby stays
// open for a rematch.
func (a *Actor) finishGameOver() {
	a.lobby.ResetReadyStatesToHostOnly()
	a.broadcastReadyStates()
	a.lobby.Started = false
}

// checkAndHandleGameOver applies the mode's end condition, sends win/lose
// verdicts, and reports whether the game ended.
func (a *Actor) checkAndHandleGameOver() bool {
	switch a.lobby.Options.GameMode {
	case game.Survival:
		if a.lobby.AlivePlayerCount() > 1 {
			return false
		}
		winnerID, _ := a.lobby.MaxFurthestBlind()
		winner := a.lobby.Player(winnerID)
		winnerAlive := winner != nil && winner.GameState.Lives > 0
		if winnerAlive || a.lobby.AllPlayersDead() {
			a.bc.BroadcastTo([]string{winnerID}, &s2c.WinGame{})
			a.bc.BroadcastExcept(winnerID, &s2c.LoseGame{})
			return true
		}
		return false
	case game.CoopSurvival:
		// One death loses it for the whole team.
		if a.lobby.IsSomeoneDead() {
			a.bc.Broadcast(&s2c.LoseGame{})
			return true
		}
		return false
	case game.Clash:
		if !a.lobby.IsSomeoneDead() {
			return false
		}
		var dead, alive []string
		for _, id := range a.lobby.PlayerIDs() {
			entry := a.lobby.Player(id)
			if !entry.LobbyState.InGame {
				continue
			}
			if entry.GameState.Lives == 0 {
				dead = append(dead, id)
				entry.LobbyState.InGame = false
			} else {
				alive = append(alive, id)
			}
		}
		a.bc.BroadcastTo(dead, &s2c.LoseGame{})
		if len(alive) == 1 {
			a.bc.BroadcastTo(alive, &s2c.WinGame{})
			return true
		}
		return false
	default:
		if !a.lobby.IsSomeoneDead() {
			return false
		}
		var winners, losers []string
		for _, id := range a.lobby.PlayerIDs() {
			if a.lobby.Player(id).GameState.Lives > 0 {
				winners = append(winners, id)
			} else {
				losers = append(losers, id)
			}
		}
		a.bc.BroadcastTo(winners, &s2c.WinGame{})
		a.bc.BroadcastTo(losers, &s2c.LoseGame{})
		return true
	}
}

// startOnlineBlind kicks off the next blind once every in-game player has
// signalled ready.
func (a *Actor) startOnlineBlind() {
	a.lobby.ResetReadyStates()
	a.lobby.ResetScores()
	a.bc.BroadcastTo(a.lobby.InGamePlayerIDs(), &s2c.StartBlind{})
	a.broadcastReadyStates()
}

// Broadcast helpers.

func (a *Actor) broadcastGameStateUpdate(playerID string, excludePlayer bool) {
	entry := a.lobby.Player(playerID)
	if entry == nil {
		return
	}
	update := &s2c.GameStateUpdate{PlayerID: playerID, GameState: entry.GameState}
	if excludePlayer {
		a.bc.BroadcastExcept(playerID, update)
	} else {
		a.bc.Broadcast(update)
	}
}

func (a *Actor) broadcastAllGameStates() {
	for _, id := range a.lobby.PlayerIDs() {
		a.broadcastGameStateUpdate(id, false)
	}
}

// broadcastLifeUpdates fans life changes out: in CoopSurvival a loss touches
// every player, elsewhere only the failing player changed.
func (a *Actor) broadcastLifeUpdates(playerID string) {
	if a.lobby.Options.GameMode == game.CoopSurvival {
		a.broadcastAllGameStates()
		return
	}
	a.broadcastGameStateUpdate(playerID, false)
}

func (a *Actor) broadcastReadyStates() {
	a.bc.Broadcast(&s2c.LobbyReady{ReadyStates: a.lobby.CollectReadyStates()})
}

func (a *Actor) broadcastReadyStatesExcept(playerID string) {
	a.bc.BroadcastExcept(playerID, &s2c.LobbyReady{ReadyStates: a.lobby.CollectReadyStates()})
}

func (a *Actor) broadcastInGameStatuses() {
	a.bc.Broadcast(&s2c.InGameStatuses{Statuses: a.lobby.InGameStatuses()})
}

func (a *Actor) playersList() []game.ClientLobbyEntry {
	ids := a.lobby.PlayerIDs()
	players := make([]game.ClientLobbyEntry, 0, len(ids))
	for _, id := range ids {
		players = append(players, *a.lobby.Player(id))
	}
	return players
}

// sendError pushes an error frame straight onto a writer channel, used before
// the player is registered with the broadcaster.
func sendError(writerTx chan<- []byte, message string) {
	payload := s2c.Encode(&s2c.Error{Message: message})
	select {
	case writerTx <- payload:
	default:
	}
}
