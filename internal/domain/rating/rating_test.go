package rating_test

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ferologics/sunday-football-manager/internal/domain/model"
	"github.com/ferologics/sunday-football-manager/internal/domain/rating"
)

func side(rating float64, fractions ...float64) []model.Participation {
	out := make([]model.Participation, len(fractions))
	for i, f := range fractions {
		out[i] = model.Participation{
			PlayerID:  string(rune('a'+i)) + "-" + string(rune('0'+len(fractions))),
			PreRating: rating,
			Fraction:  f,
		}
	}
	return out
}

func named(id string, preRating, fraction float64) model.Participation {
	return model.Participation{PlayerID: id, PreRating: preRating, Fraction: fraction}
}

func TestExpectedScore(t *testing.T) {
	Convey("Given the logistic expectation", t, func() {
		Convey("Then equal ratings expect half a point", func() {
			So(rating.ExpectedScore(1200, 1200), ShouldAlmostEqual, 0.5, 0.0001)
		})
		Convey("Then the higher-rated side expects more", func() {
			So(rating.ExpectedScore(1400, 1200), ShouldBeGreaterThan, 0.5)
			So(rating.ExpectedScore(1000, 1200), ShouldBeLessThan, 0.5)
		})
		Convey("Then the two sides' expectations sum to one", func() {
			sum := rating.ExpectedScore(1400, 1100) + rating.ExpectedScore(1100, 1400)
			So(sum, ShouldAlmostEqual, 1.0, 0.0001)
		})
	})
}

func TestGoalDiffMultiplier(t *testing.T) {
	Convey("Given the default engine", t, func() {
		e := rating.NewEngine()

		Convey("Then one-goal margins and draws are unamplified", func() {
			So(e.GoalDiffMultiplier(0), ShouldEqual, 1.0)
			So(e.GoalDiffMultiplier(1), ShouldEqual, 1.0)
		})
		Convey("Then each further goal adds half, up to the cap", func() {
			So(e.GoalDiffMultiplier(2), ShouldEqual, 1.5)
			So(e.GoalDiffMultiplier(3), ShouldEqual, 2.0)
			So(e.GoalDiffMultiplier(4), ShouldEqual, 2.5)
			So(e.GoalDiffMultiplier(10), ShouldEqual, 2.5)
		})
		Convey("Then a custom cap bounds the multiplier", func() {
			capped := rating.NewEngine(rating.WithGDMultiplierCap(2.0))
			So(capped.GoalDiffMultiplier(10), ShouldEqual, 2.0)
		})
	})
}

func TestEngine_ApplyResult(t *testing.T) {
	Convey("Given the default engine", t, func() {
		ctx := context.Background()
		e := rating.NewEngine()

		Convey("When equal full-strength teams draw", func() {
			changes, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("a1", 1200, 1), named("a2", 1200, 1)},
				TeamB:  []model.Participation{named("b1", 1200, 1), named("b2", 1200, 1)},
				ScoreA: 2, ScoreB: 2,
			})

			Convey("Then every delta is zero", func() {
				So(err, ShouldBeNil)
				So(changes, ShouldHaveLength, 4)
				for _, c := range changes {
					So(c.Delta, ShouldAlmostEqual, 0, 0.0001)
				}
			})
		})

		Convey("When equal full-strength teams finish 3-2", func() {
			changes, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("a1", 1200, 1), named("a2", 1200, 1)},
				TeamB:  []model.Participation{named("b1", 1200, 1), named("b2", 1200, 1)},
				ScoreA: 3, ScoreB: 2,
			})

			Convey("Then winners gain 16 and losers drop 16", func() {
				So(err, ShouldBeNil)
				So(changes["a1"].Delta, ShouldAlmostEqual, 16, 0.0001)
				So(changes["a2"].Delta, ShouldAlmostEqual, 16, 0.0001)
				So(changes["b1"].Delta, ShouldAlmostEqual, -16, 0.0001)
				So(changes["b2"].Delta, ShouldAlmostEqual, -16, 0.0001)
			})
		})

		Convey("When a bigger winning margin is recorded", func() {
			base := model.MatchResult{
				TeamA:  []model.Participation{named("a1", 1200, 1)},
				TeamB:  []model.Participation{named("b1", 1200, 1)},
				ScoreA: 1, ScoreB: 0,
			}
			narrow, err := e.ApplyResult(ctx, base)
			So(err, ShouldBeNil)

			base.ScoreA = 3
			wide, err := e.ApplyResult(ctx, base)
			So(err, ShouldBeNil)

			base.ScoreA = 9
			blowout, err := e.ApplyResult(ctx, base)
			So(err, ShouldBeNil)

			Convey("Then the delta grows with goal difference up to the cap", func() {
				So(math.Abs(wide["a1"].Delta), ShouldBeGreaterThan, math.Abs(narrow["a1"].Delta))
				So(blowout["a1"].Delta, ShouldAlmostEqual, 2.5*narrow["a1"].Delta, 0.0001)
			})
		})

		Convey("When teammates play different shares of the same match", func() {
			changes, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("full", 1200, 1), named("half", 1200, 0.5)},
				TeamB:  []model.Participation{named("b1", 1200, 1), named("b2", 1200, 0.5)},
				ScoreA: 2, ScoreB: 1,
			})

			Convey("Then the half-match player gets exactly half the delta", func() {
				So(err, ShouldBeNil)
				So(changes["half"].Delta, ShouldAlmostEqual, changes["full"].Delta/2, 0.0001)
				So(changes["half"].Fraction, ShouldEqual, 0.5)
			})
		})

		Convey("When a quarter-match player wins 1-0 at even strength", func() {
			// Effective strengths match (0.25+0.75 vs 1.0), so expectation is
			// exactly one half and the team delta is +16.
			changes, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("quarter", 1200, 0.25), named("rest", 1200, 0.75)},
				TeamB:  []model.Participation{named("b1", 1200, 1)},
				ScoreA: 1, ScoreB: 0,
			})

			Convey("Then the quarter-match player banks exactly 4 points", func() {
				So(err, ShouldBeNil)
				So(changes["quarter"].Delta, ShouldAlmostEqual, 4, 0.0001)
				So(changes["rest"].Delta, ShouldAlmostEqual, 12, 0.0001)
			})
		})

		Convey("When six full players draw against seven", func() {
			changes, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  side(1200, 1, 1, 1, 1, 1, 1),
				TeamB:  side(1150, 1, 1, 1, 1, 1, 1, 1),
				ScoreA: 2, ScoreB: 2,
			})

			Convey("Then the short-handed side gains on the draw", func() {
				So(err, ShouldBeNil)
				for _, p := range side(1200, 1, 1, 1, 1, 1, 1) {
					So(changes[p.PlayerID].Delta, ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When an underdog wins by a wide margin", func() {
			changes, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("favorite", 1600, 1)},
				TeamB:  []model.Participation{named("underdog", 1000, 1)},
				ScoreA: 0, ScoreB: 3,
			})

			Convey("Then the swing is large in both directions", func() {
				So(err, ShouldBeNil)
				So(changes["favorite"].Delta, ShouldBeLessThan, -20)
				So(changes["underdog"].Delta, ShouldBeGreaterThan, 20)
			})
		})
	})
}

func TestEngine_Validation(t *testing.T) {
	Convey("Given the default engine", t, func() {
		ctx := context.Background()
		e := rating.NewEngine()

		Convey("When one side has no participants", func() {
			_, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA: []model.Participation{named("a1", 1200, 1)},
			})
			So(errors.Is(err, rating.ErrEmptyTeam), ShouldBeTrue)
		})

		Convey("When a fraction is off the allowed grid", func() {
			_, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("a1", 1200, 0.6)},
				TeamB:  []model.Participation{named("b1", 1200, 1)},
				ScoreA: 1, ScoreB: 0,
			})
			So(errors.Is(err, rating.ErrInvalidParticipation), ShouldBeTrue)
		})

		Convey("When a player appears on both sides", func() {
			_, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("dup", 1200, 1)},
				TeamB:  []model.Participation{named("dup", 1200, 1)},
				ScoreA: 1, ScoreB: 0,
			})
			So(errors.Is(err, rating.ErrMalformedMatch), ShouldBeTrue)
		})

		Convey("When a score is negative", func() {
			_, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("a1", 1200, 1)},
				TeamB:  []model.Participation{named("b1", 1200, 1)},
				ScoreA: -1, ScoreB: 0,
			})
			So(errors.Is(err, rating.ErrNegativeScore), ShouldBeTrue)
		})

		Convey("Then no partial results escape a failed validation", func() {
			changes, err := e.ApplyResult(ctx, model.MatchResult{
				TeamA:  []model.Participation{named("a1", 1200, 0.1)},
				TeamB:  []model.Participation{named("b1", 1200, 1)},
				ScoreA: 1, ScoreB: 0,
			})
			So(err, ShouldNotBeNil)
			So(changes, ShouldBeNil)
		})
	})
}
