// Package store reads hand histories out of the tracking database. The
// schema holds one row per game plus per-game player, action and card
// rows; Hands stitches them back into complete hand records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/go-sql-driver/mysql"

	"github.com/lox/handtree/internal/hand"
	"github.com/lox/handtree/internal/ingest"
	"github.com/lox/handtree/poker"
)

// DefaultMaxHands caps unfiltered imports so an accidental full-table
// query cannot pull the entire history.
const DefaultMaxHands = 1000

// DB wraps the hand-history database.
type DB struct {
	db     *sql.DB
	logger *log.Logger
}

// Open connects to the database at dsn and verifies the connection.
func Open(dsn string, logger *log.Logger) (*DB, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &DB{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (s *DB) Close() error {
	return s.db.Close()
}

type gameRow struct {
	id         string
	smallBlind float64
	bigBlind   float64
	ante       float64
}

type playerRow struct {
	gameID       string
	playerID     string
	position     string
	isHero       bool
	initialStack float64
}

type actionRow struct {
	gameID    string
	playerID  string
	round     int
	typeCode  int
	amount    float64
	order     int
	potBefore float64
}

type cardRow struct {
	gameID   string
	playerID string
	values   string
}

// Hands loads every hand matching filter, with actions in chronological
// order. It satisfies the importer's source contract; an empty result is
// returned as an empty slice, not an error.
func (s *DB) Hands(ctx context.Context, filter ingest.Filter) ([]*hand.Hand, error) {
	games, err := s.qualifiedGames(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	s.logger.Debug("qualified games", "count", len(games))

	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.id
	}

	players, err := s.gamePlayers(ctx, ids)
	if err != nil {
		return nil, err
	}
	actions, err := s.gameActions(ctx, ids)
	if err != nil {
		return nil, err
	}
	cards, err := s.pocketCards(ctx, ids)
	if err != nil {
		return nil, err
	}

	return buildHands(games, players, actions, cards), nil
}

// qualifiedGames selects games whose effective stack, the shortest
// starting stack in big blinds, falls inside the filter's range.
func (s *DB) qualifiedGames(ctx context.Context, filter ingest.Filter) ([]gameRow, error) {
	maxHands := filter.MaxHands
	if maxHands <= 0 {
		maxHands = DefaultMaxHands
	}

	var b strings.Builder
	b.WriteString(`
		SELECT g.game_id, g.small_blind, g.big_blind, g.ante
		FROM game_players gp
		JOIN games g ON gp.game_id = g.game_id
		WHERE g.big_blind > 0`)
	args := []any{}
	if filter.GameType == ingest.GameTypeHeadsUp {
		b.WriteString(" AND g.player_count = 2")
	}
	b.WriteString(`
		GROUP BY g.game_id, g.small_blind, g.big_blind, g.ante
		HAVING MIN(gp.initial_stack / g.big_blind) BETWEEN ? AND ?
		LIMIT ?`)
	args = append(args, filter.MinStack, filter.MaxStack, maxHands)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []gameRow
	for rows.Next() {
		var g gameRow
		if err := rows.Scan(&g.id, &g.smallBlind, &g.bigBlind, &g.ante); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *DB) gamePlayers(ctx context.Context, gameIDs []string) ([]playerRow, error) {
	query := fmt.Sprintf(`
		SELECT game_id, player_id, position, is_hero, initial_stack
		FROM game_players
		WHERE game_id IN (%s)`, placeholders(len(gameIDs)))

	rows, err := s.db.QueryContext(ctx, query, idArgs(gameIDs)...)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var players []playerRow
	for rows.Next() {
		var p playerRow
		var isHero int
		if err := rows.Scan(&p.gameID, &p.playerID, &p.position, &isHero, &p.initialStack); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		p.isHero = isHero == 1
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *DB) gameActions(ctx context.Context, gameIDs []string) ([]actionRow, error) {
	query := fmt.Sprintf(`
		SELECT game_id, player_id, action_round, action_type, action_sum, action_order, pot_before_action
		FROM actions
		WHERE game_id IN (%s)
		ORDER BY game_id, action_order`, placeholders(len(gameIDs)))

	rows, err := s.db.QueryContext(ctx, query, idArgs(gameIDs)...)
	if err != nil {
		return nil, fmt.Errorf("querying actions: %w", err)
	}
	defer rows.Close()

	var actions []actionRow
	for rows.Next() {
		var a actionRow
		if err := rows.Scan(&a.gameID, &a.playerID, &a.round, &a.typeCode, &a.amount, &a.order, &a.potBefore); err != nil {
			return nil, fmt.Errorf("scanning action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (s *DB) pocketCards(ctx context.Context, gameIDs []string) ([]cardRow, error) {
	query := fmt.Sprintf(`
		SELECT game_id, player_id, card_values
		FROM cards
		WHERE game_id IN (%s) AND card_type = 'Pocket'`, placeholders(len(gameIDs)))

	rows, err := s.db.QueryContext(ctx, query, idArgs(gameIDs)...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []cardRow
	for rows.Next() {
		var c cardRow
		if err := rows.Scan(&c.gameID, &c.playerID, &c.values); err != nil {
			return nil, fmt.Errorf("scanning cards: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// buildHands assembles row sets into hand records. Rows referencing games
// absent from the qualified set are dropped; unparsable hole cards leave
// the player's cards unknown rather than failing the hand.
func buildHands(games []gameRow, players []playerRow, actions []actionRow, cards []cardRow) []*hand.Hand {
	byID := make(map[string]*hand.Hand, len(games))
	order := make([]string, 0, len(games))
	for _, g := range games {
		byID[g.id] = &hand.Hand{
			ID: g.id,
			Blinds: hand.Blinds{
				Small: g.smallBlind,
				Big:   g.bigBlind,
				Ante:  g.ante,
			},
		}
		order = append(order, g.id)
	}

	holeCards := make(map[string]map[string][]poker.Card)
	for _, c := range cards {
		parsed, err := poker.ParseHoleCards(c.values)
		if err != nil {
			continue
		}
		if holeCards[c.gameID] == nil {
			holeCards[c.gameID] = make(map[string][]poker.Card)
		}
		holeCards[c.gameID][c.playerID] = parsed
	}

	heroes := make(map[string]map[string]bool)
	for _, p := range players {
		h, ok := byID[p.gameID]
		if !ok {
			continue
		}
		h.Players = append(h.Players, hand.Player{
			Name:         p.playerID,
			Position:     p.position,
			InitialStack: p.initialStack,
			IsHero:       p.isHero,
			HoleCards:    holeCards[p.gameID][p.playerID],
		})
		if heroes[p.gameID] == nil {
			heroes[p.gameID] = make(map[string]bool)
		}
		heroes[p.gameID][p.playerID] = p.isHero
	}

	positions := make(map[string]map[string]string)
	for _, p := range players {
		if positions[p.gameID] == nil {
			positions[p.gameID] = make(map[string]string)
		}
		positions[p.gameID][p.playerID] = p.position
	}

	for _, a := range actions {
		h, ok := byID[a.gameID]
		if !ok {
			continue
		}
		h.Actions = append(h.Actions, hand.RawAction{
			Actor:     a.playerID,
			Position:  positions[a.gameID][a.playerID],
			Street:    hand.Street(a.round),
			Type:      hand.ActionType(a.typeCode),
			Amount:    a.amount,
			PotBefore: a.potBefore,
			Order:     a.order,
			IsHero:    heroes[a.gameID][a.playerID],
		})
	}

	hands := make([]*hand.Hand, 0, len(order))
	for _, id := range order {
		hands = append(hands, byID[id])
	}
	return hands
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
