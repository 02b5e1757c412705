package recommender

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v4"

	"github.com/pvpokemon/pvpokemon/pokedex"
	"github.com/pvpokemon/pvpokemon/type_chart"
)

type Result struct {
	PokeId     int          `json:"poke_id"`
	Name       null.String  `json:"name"`
	Types      []string     `json:"types"`
	Score      float64      `json:"score"`
	Sprite     null.String  `json:"sprite"`
	QuickMove  pokedex.Move `json:"quick_move"`
	ChargeMove pokedex.Move `json:"charge_move"`
}

// Recommender answers "best team" queries. It keeps no mutable state, so
// it may be used from many goroutines at once.
type Recommender struct {
	logger    *logrus.Logger
	config    Config
	assetsDir string
	optimizer *Optimizer
}

func (rec *Recommender) LogConfiguration(prefix string) {
	var buf bytes.Buffer

	buf.WriteString(prefix)
	buf.WriteString(fmt.Sprintf("assets_dir: '%s', ", rec.assetsDir))
	rec.config.writeConfiguration(&buf)

	rec.logger.Info(buf.String())
}

// Recommend returns up to TEAM_SIZE results, considering every creature
// in 'dex'. 'opponentTypes' may be raw tokens and may be empty.
func (rec *Recommender) Recommend(dex *pokedex.Pokedex, opponentTypes []string) []Result {
	creatures := dex.All()
	pool := make([]Candidate, len(creatures))
	for idx, creature := range creatures {
		pool[idx] = Candidate{Creature: creature}
	}
	return rec.RecommendFromPool(opponentTypes, pool)
}

// RecommendFromPool is Recommend restricted to 'pool', such as the
// creatures in a user's box.
func (rec *Recommender) RecommendFromPool(opponentTypes []string, pool []Candidate) []Result {
	opponents := NormalizeOpponentTypes(opponentTypes)

	team := rec.optimizer.BestTeam(pool, opponents)

	if rec.config.LogTeams {
		rec.logTeam(team, opponents, len(pool))
	}

	results := make([]Result, len(team.Members))
	for idx, member := range team.Members {
		results[idx] = rec.makeResult(member)
	}
	return results
}

func (rec *Recommender) makeResult(member ScoredCandidate) Result {
	creature := member.Creature
	return Result{
		PokeId:     creature.Id,
		Name:       creature.Name,
		Types:      creature.Types,
		Score:      member.Score,
		Sprite:     rec.resolveSprite(member.Candidate),
		QuickMove:  BestMove(creature.QuickMoves),
		ChargeMove: BestMove(creature.ChargeMoves),
	}
}

// resolveSprite prefers the candidate's hint, then the creature's first
// sprite, then the conventional filename if it exists in the assets dir.
func (rec *Recommender) resolveSprite(candidate Candidate) null.String {
	if hint := candidate.Sprite; hint.Valid && hint.String != "" {
		return hint
	}

	if sprite := candidate.Creature.FirstSprite(); sprite.Valid {
		return sprite
	}

	if rec.assetsDir == "" {
		return null.String{}
	}

	filename := pokedex.ConventionalSpriteFilename(candidate.Creature.Id)
	if _, err := os.Stat(filepath.Join(rec.assetsDir, filename)); err != nil {
		return null.String{}
	}
	return null.StringFrom(filename)
}

func (rec *Recommender) logTeam(team Team, opponents []string, poolSize int) {
	members := make([]string, len(team.Members))
	for idx, member := range team.Members {
		members[idx] = fmt.Sprintf("%s(score: %0.3f, rank: %d)", member.Creature, member.Score, member.Rank)
	}

	rec.logger.Infof("RECOMMEND: opponents [%s], pool %d: team [%s] value %0.3f (offense: %0.3f, diversity: %0.3f, vulnerability: %0.3f, penalty: %0.3f)",
		strings.Join(opponents, ","),
		poolSize,
		strings.Join(members, ", "),
		team.Value,
		team.Offense,
		team.DiversityBonus,
		team.Vulnerability,
		team.Penalty,
	)
}

// NewRecommender creates a Recommender. 'assetsDir' is only used to look
// for fallback sprites and may be "".
func NewRecommender(logger *logrus.Logger, chart type_chart.Chart, config Config, assetsDir string) *Recommender {
	return &Recommender{
		logger:    logger,
		config:    config,
		assetsDir: assetsDir,
		optimizer: NewOptimizer(chart, config.MaxPoolSize),
	}
}
