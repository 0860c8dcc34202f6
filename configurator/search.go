package configurator

import (
	"context"
	"math/rand"

	clk "github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/kinematics/ik"
	"github.com/austingheath/configurator/logging"
	"github.com/austingheath/configurator/utils"
)

// reachEpsilon is the slack given to the reach estimate before a candidate is pruned.
const reachEpsilon = 1e-9

// Stats counts what a search did on the way to its answer. Only candidates up to and including the
// winner are counted, so the numbers do not depend on the number of workers.
type Stats struct {
	StartJoints int `json:"startJoints"`
	Candidates  int `json:"candidates"`
	Skipped     int `json:"skipped"`
	Pruned      int `json:"pruned"`
	IKAttempts  int `json:"ikAttempts"`
}

type candidate struct {
	joints int
	param  kinematics.DHParameter
}

type outcome int

const (
	rejected outcome = iota
	skipped
	pruned
	accepted
)

type evaluation struct {
	done       bool
	outcome    outcome
	ikAttempts int
	node       *ChainNode
}

// Searcher enumerates candidate chains, smallest first, and returns the first that provably reaches
// every target.
type Searcher struct {
	cfg    Config
	opts   ik.Options
	logger logging.Logger
	clock  clk.Clock
	stats  Stats
}

// NewSearcher validates the config and returns a searcher.
func NewSearcher(cfg Config, logger logging.Logger) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Global().Sublogger("search")
	}
	return &Searcher{cfg: cfg, opts: cfg.ikOptions(), logger: logger, clock: clk.New()}, nil
}

// Stats returns the counters of the most recent call to Search.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// candidates lists every chain in enumeration order: joint count, then alpha in config order, then a,
// then d. Link lengths run from zero up to, but excluding, MaxLinkLength.
func (s *Searcher) candidates(start int) []candidate {
	var lengths []float64
	for k := 0; float64(k)*s.cfg.LinkStep < s.cfg.MaxLinkLength; k++ {
		lengths = append(lengths, float64(k)*s.cfg.LinkStep)
	}
	var out []candidate
	for joints := start; joints <= s.cfg.MaxJoints; joints++ {
		for _, alpha := range s.cfg.Alphas {
			for _, a := range lengths {
				for _, d := range lengths {
					out = append(out, candidate{joints, kinematics.DHParameter{Alpha: alpha, A: a, D: d}})
				}
			}
		}
	}
	return out
}

// Search returns the first candidate chain that reaches every target, with the joint angles that reach
// them in the order points, orientations, poses. It fails with NoFeasibleConfiguration when no candidate
// up to MaxJoints works and with BudgetExceeded when ctx ends or the configured timeout passes first.
func (s *Searcher) Search(ctx context.Context, targets Targets) (*ChainNode, error) {
	s.stats = Stats{}
	if targets.Empty() {
		return nil, kinematics.NewInvalidTargetError("at least one point or orientation must be provided")
	}
	began := s.clock.Now()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = s.clock.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := startJoints(s.cfg, targets)
	cands := s.candidates(start)
	ikTargets := targets.ikTargets()
	positions := targets.positions()
	ikLogger := s.logger.Sublogger("ik")
	s.logger.Infow("starting search", "targets", targets.Len(), "start_joints", start,
		"candidates", len(cands), "workers", s.cfg.Workers)

	evals := make([]evaluation, len(cands))
	winner, err := utils.FirstInOrder(ctx, len(cands), s.cfg.Workers, func(ctx context.Context, i int) (bool, error) {
		eval, err := s.evaluate(ctx, i, cands[i], positions, ikTargets, ikLogger)
		eval.done = true
		evals[i] = eval
		return eval.outcome == accepted, err
	})

	last := winner
	if winner < 0 {
		last = len(cands) - 1
	}
	s.stats = Stats{StartJoints: start}
	for i := 0; i <= last && i < len(evals); i++ {
		if !evals[i].done {
			continue
		}
		s.stats.Candidates++
		s.stats.IKAttempts += evals[i].ikAttempts
		switch evals[i].outcome {
		case skipped:
			s.stats.Skipped++
		case pruned:
			s.stats.Pruned++
		default:
		}
	}

	if err == nil && winner >= 0 {
		node := evals[winner].node
		s.logger.Infow("found configuration", "id", node.ID.String(), "chain", node.Chain.String(),
			"candidate", winner, "ik_attempts", s.stats.IKAttempts, "elapsed", s.clock.Since(began))
		return node, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, kinematics.WrapError(kinematics.BudgetExceeded, ctxErr, "search stopped before finding a configuration")
	}
	if err != nil {
		return nil, err
	}
	s.logger.Infow("no configuration found", "candidates", len(cands), "elapsed", s.clock.Since(began))
	return nil, kinematics.NewError(kinematics.NoFeasibleConfiguration,
		"no robot found with up to %d joints", s.cfg.MaxJoints)
}

// evaluate decides a single candidate. An error is returned only when the search must stop; a candidate
// that merely cannot reach a target is rejected.
func (s *Searcher) evaluate(
	ctx context.Context,
	ordinal int,
	cand candidate,
	positions []r3.Vector,
	targets []ik.Target,
	logger logging.Logger,
) (evaluation, error) {
	if utils.Float64AlmostEqual(cand.param.Alpha, 0, reachEpsilon) && cand.param.A == 0 {
		return evaluation{outcome: skipped}, nil
	}

	chain, err := kinematics.NewHomogeneousChain(cand.param, cand.joints)
	if err != nil {
		return evaluation{}, err
	}
	node := NewChainNode(chain)
	candLogger := s.logger.With("chain", chain.String(), "ordinal", ordinal)
	for _, p := range positions {
		if !node.Bounds.Contains(p.Norm(), reachEpsilon) {
			candLogger.Debugw("pruned candidate", "reach", node.Bounds)
			return evaluation{outcome: pruned}, nil
		}
	}

	solver, err := ik.NewSolver(chain, s.opts, logger.With("chain", chain.String()))
	if err != nil {
		return evaluation{}, err
	}
	rng := rand.New(rand.NewSource(s.cfg.Seed + int64(ordinal)))
	eval := evaluation{}
	solutions := make([][]float64, 0, len(targets))
	for _, target := range targets {
		eval.ikAttempts++
		res, err := solver.Solve(ctx, target, rng)
		if err != nil {
			if ctx.Err() != nil {
				return eval, err
			}
			if kinematics.IsKind(err, kinematics.ConvergenceFailure) || kinematics.IsKind(err, kinematics.BudgetExceeded) {
				candLogger.Debugw("rejected candidate", "error", err)
				eval.outcome = rejected
				return eval, nil
			}
			return eval, errors.Wrapf(err, "cannot verify %s", chain)
		}
		solutions = append(solutions, res.Angles)
	}

	node.Solutions = solutions
	eval.outcome = accepted
	eval.node = node
	return eval, nil
}
