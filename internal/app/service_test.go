package service_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ferologics/sunday-football-manager/internal/adapters/repository"
	service "github.com/ferologics/sunday-football-manager/internal/app"
	"github.com/ferologics/sunday-football-manager/internal/domain/balance"
	"github.com/ferologics/sunday-football-manager/internal/domain/model"
	"github.com/ferologics/sunday-football-manager/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestService() *service.Service {
	return service.New(
		service.WithSplitter(balance.NewBruteForce(
			balance.WithRand(rand.New(rand.NewSource(1))),
		)),
	)
}

func addPlayer(ctx context.Context, svc *service.Service, name string, rating float64, tags ...string) model.Player {
	p, err := svc.AddPlayer(ctx, service.NewPlayer{Name: name, Rating: &rating, Tags: tags})
	So(err, ShouldBeNil)
	return p
}

func TestService_Roster(t *testing.T) {
	Convey("Given a fresh service", t, func() {
		ctx := context.Background()
		svc := newTestService()

		Convey("When adding a player without a rating", func() {
			created, err := svc.AddPlayer(ctx, service.NewPlayer{Name: "Alice", Tags: []string{"def"}})

			Convey("Then the default rating and normalized tags apply", func() {
				So(err, ShouldBeNil)
				So(created.Rating, ShouldEqual, 1200.0)
				So(created.Tags, ShouldResemble, []model.Tag{model.TagDef})
			})
		})

		Convey("When adding a player with bad input", func() {
			_, errName := svc.AddPlayer(ctx, service.NewPlayer{Name: "   "})
			_, errTag := svc.AddPlayer(ctx, service.NewPlayer{Name: "Bob", Tags: []string{"WIZARD"}})

			Convey("Then validation fails fast", func() {
				So(errors.Is(errName, service.ErrInvalidPlayer), ShouldBeTrue)
				So(errors.Is(errTag, service.ErrUnknownTag), ShouldBeTrue)
			})
		})

		Convey("When editing and removing a player", func() {
			created := addPlayer(ctx, svc, "Carol", 1100)

			updated, err := svc.EditPlayer(ctx, created.ID, service.UpdatePlayer{
				Name: "Carol", Rating: 1180, Tags: []string{"RUNNER"},
			})
			So(err, ShouldBeNil)
			So(updated.Rating, ShouldEqual, 1180)

			So(svc.RemovePlayer(ctx, created.ID), ShouldBeNil)
			players, err := svc.Players(ctx)
			So(err, ShouldBeNil)
			So(players, ShouldHaveLength, 0)
		})
	})
}

func TestService_ProposeTeams(t *testing.T) {
	Convey("Given a service with a checked-in roster", t, func() {
		ctx := context.Background()
		svc := newTestService()

		ids := make([]string, 0, 6)
		for _, spec := range []struct {
			name   string
			rating float64
		}{
			{"p1", 1400}, {"p2", 1300}, {"p3", 1250},
			{"p4", 1200}, {"p5", 1150}, {"p6", 1100},
		} {
			ids = append(ids, addPlayer(ctx, svc, spec.name, spec.rating).ID)
		}

		Convey("When proposing teams", func() {
			split, err := svc.ProposeTeams(ctx, ids, false)

			Convey("Then every player is placed exactly once", func() {
				So(err, ShouldBeNil)
				So(len(split.TeamA)+len(split.TeamB), ShouldEqual, 6)
				So(split.TeamA, ShouldHaveLength, 3)
			})
		})

		Convey("When the roster exceeds the cap", func() {
			tooMany := make([]string, 15)
			copy(tooMany, ids)
			_, err := svc.ProposeTeams(ctx, tooMany, false)

			Convey("Then the request is rejected before any lookup", func() {
				So(errors.Is(err, service.ErrRosterTooLarge), ShouldBeTrue)
			})
		})

		Convey("When an id is unknown", func() {
			_, err := svc.ProposeTeams(ctx, []string{ids[0], "ghost"}, false)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_RecordResult(t *testing.T) {
	Convey("Given a service with four equal players", t, func() {
		ctx := context.Background()
		svc := newTestService()
		a1 := addPlayer(ctx, svc, "a1", 1200)
		a2 := addPlayer(ctx, svc, "a2", 1200)
		b1 := addPlayer(ctx, svc, "b1", 1200)
		b2 := addPlayer(ctx, svc, "b2", 1200)

		full := func(p model.Player) service.Participant {
			return service.Participant{PlayerID: p.ID, Fraction: 1}
		}

		Convey("When recording a 3-2 result", func() {
			match, err := svc.RecordResult(ctx, service.RecordRequest{
				TeamA:  []service.Participant{full(a1), full(a2)},
				TeamB:  []service.Participant{full(b1), full(b2)},
				ScoreA: 3, ScoreB: 2,
			})

			Convey("Then ratings move by sixteen points each way", func() {
				So(err, ShouldBeNil)
				So(match.Changes[a1.ID].Delta, ShouldAlmostEqual, 16, 0.0001)
				So(match.Changes[b1.ID].Delta, ShouldAlmostEqual, -16, 0.0001)

				players, err := svc.Players(ctx)
				So(err, ShouldBeNil)
				for _, p := range players {
					switch p.ID {
					case a1.ID, a2.ID:
						So(p.Rating, ShouldAlmostEqual, 1216, 0.0001)
					case b1.ID, b2.ID:
						So(p.Rating, ShouldAlmostEqual, 1184, 0.0001)
					}
					So(p.MatchesPlayed, ShouldEqual, 1)
				}
			})

			Convey("And the match lands in the history", func() {
				So(err, ShouldBeNil)
				matches, err := svc.Matches(ctx)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].ID, ShouldEqual, match.ID)
			})
		})

		Convey("When a guest plays for the winners", func() {
			match, err := svc.RecordResult(ctx, service.RecordRequest{
				TeamA: []service.Participant{full(a1), {Guest: true, Name: "Visitor", Rating: 1300, Fraction: 1}},
				TeamB: []service.Participant{full(b1), full(b2)},
				ScoreA: 1, ScoreB: 0,
			})

			Convey("Then the guest shapes the math but gets no persisted delta", func() {
				So(err, ShouldBeNil)
				So(match.Changes, ShouldNotContainKey, "guest:Visitor")
				So(match.Changes[a1.ID].Delta, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the result is malformed", func() {
			_, errFraction := svc.RecordResult(ctx, service.RecordRequest{
				TeamA:  []service.Participant{{PlayerID: a1.ID, Fraction: 0.3}},
				TeamB:  []service.Participant{full(b1)},
				ScoreA: 1, ScoreB: 0,
			})
			_, errGhost := svc.RecordResult(ctx, service.RecordRequest{
				TeamA:  []service.Participant{{PlayerID: "ghost", Fraction: 1}},
				TeamB:  []service.Participant{full(b1)},
				ScoreA: 1, ScoreB: 0,
			})

			Convey("Then nothing is recorded", func() {
				So(errFraction, ShouldNotBeNil)
				So(errors.Is(errGhost, repository.ErrNotFound), ShouldBeTrue)
				matches, err := svc.Matches(ctx)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 0)
			})
		})
	})
}
