package game

// LobbyOptions is the full rule configuration for a lobby. Most fields are
// opaque to the server and only relayed to clients; the server itself consults
// GameMode, CustomSeed, DifferentSeeds, DeathOnRoundLoss, StartingLives and
// TimerBaseSeconds.
type LobbyOptions struct {
	Back                   string   `msgpack:"back" json:"back"`
	Challenge              string   `msgpack:"challenge" json:"challenge"`
	CustomSeed             string   `msgpack:"custom_seed" json:"custom_seed"`
	DeathOnRoundLoss       bool     `msgpack:"death_on_round_loss" json:"death_on_round_loss"`
	DifferentDecks         bool     `msgpack:"different_decks" json:"different_decks"`
	DifferentSeeds         bool     `msgpack:"different_seeds" json:"different_seeds"`
	DisableLiveAndTimerHUD bool     `msgpack:"disable_live_and_timer_hud" json:"disable_live_and_timer_hud"`
	GameMode               GameMode `msgpack:"gamemode" json:"gamemode"`
	GoldOnLifeLoss         bool     `msgpack:"gold_on_life_loss" json:"gold_on_life_loss"`
	MultiplayerJokers      bool     `msgpack:"multiplayer_jokers" json:"multiplayer_jokers"`
	NoGoldOnRoundLoss      bool     `msgpack:"no_gold_on_round_loss" json:"no_gold_on_round_loss"`
	NormalBosses           bool     `msgpack:"normal_bosses" json:"normal_bosses"`
	PvpStartRound          int32    `msgpack:"pvp_start_round" json:"pvp_start_round"`
	Ruleset                string   `msgpack:"ruleset" json:"ruleset"`
	ShowdownStartingAntes  int32    `msgpack:"showdown_starting_antes" json:"showdown_starting_antes"`
	Stake                  int32    `msgpack:"stake" json:"stake"`
	StartingLives          uint8    `msgpack:"starting_lives" json:"starting_lives"`
	TimerBaseSeconds       int32    `msgpack:"timer_base_seconds" json:"timer_base_seconds"`
	TimerIncrementSeconds  int32    `msgpack:"timer_increment_seconds" json:"timer_increment_seconds"`
}
