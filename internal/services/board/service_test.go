package board

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tallyhq/tally/internal/dependencies/mocks"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/services/standings"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	state   *model.BoardState
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.clock, s.random)
	s.state = &model.BoardState{}
}

func (s *ServiceSuite) addParticipants(ids ...string) []model.Participant {
	parts := make([]model.Participant, len(ids))
	for i, id := range ids {
		parts[i] = model.Participant{PlayerID: model.PlayerID(id), Points: float64(i)}
	}
	return parts
}

func (s *ServiceSuite) TestAddPlayer() {
	s.random.QueueID("pl_alice")

	player := s.service.AddPlayer(s.state, "Alice")

	s.Equal(model.PlayerID("pl_alice"), player.ID)
	s.Equal("Alice", player.Name)
	s.Empty(player.Photo)
	s.Len(s.state.Players, 1)
}

func (s *ServiceSuite) TestSetPlayerPhoto() {
	s.random.QueueID("pl_alice")
	s.service.AddPlayer(s.state, "Alice")

	s.True(s.service.SetPlayerPhoto(s.state, "pl_alice", "data:image/jpeg;base64,xyz"))
	s.Equal("data:image/jpeg;base64,xyz", s.state.Players[0].Photo)

	s.True(s.service.SetPlayerPhoto(s.state, "pl_alice", ""))
	s.Empty(s.state.Players[0].Photo)
}

func (s *ServiceSuite) TestSetPlayerPhotoUnknownIDIsNoOp() {
	s.False(s.service.SetPlayerPhoto(s.state, "pl_ghost", "data:..."))
	s.Empty(s.state.Players)
}

func (s *ServiceSuite) TestAddActivity() {
	s.random.QueueID("ac_chess")

	activity := s.service.AddActivity(s.state, "Chess")

	s.Equal(model.ActivityID("ac_chess"), activity.ID)
	s.Equal("Chess", activity.Name)
	s.Len(s.state.Activities, 1)
}

func (s *ServiceSuite) TestAddScoreAssignsIDAndTimestamp() {
	s.random.QueueID("sc_1")

	entry := s.service.AddScore(s.state, model.ScoreEntry{
		ID:           "caller-supplied",
		ActivityID:   "ac_chess",
		Timestamp:    12345,
		Participants: s.addParticipants("p1", "p2"),
	})

	s.Equal(model.ScoreID("sc_1"), entry.ID)
	s.Equal(s.clock.Now().UnixMilli(), entry.Timestamp)
	s.Len(s.state.Scores, 1)
}

func (s *ServiceSuite) TestAddScorePrependsNewestFirst() {
	first := s.service.AddScore(s.state, model.ScoreEntry{Participants: s.addParticipants("p1", "p2")})
	s.clock.Advance(time.Minute)
	second := s.service.AddScore(s.state, model.ScoreEntry{Participants: s.addParticipants("p1", "p2")})

	s.Equal(second.ID, s.state.Scores[0].ID)
	s.Equal(first.ID, s.state.Scores[1].ID)
}

func (s *ServiceSuite) TestRemoveLastScoreRemovesHead() {
	s.service.AddScore(s.state, model.ScoreEntry{Participants: s.addParticipants("p1", "p2")})
	second := s.service.AddScore(s.state, model.ScoreEntry{Participants: s.addParticipants("p3", "p4")})
	s.Equal(second.ID, s.state.Scores[0].ID)

	s.True(s.service.RemoveLastScore(s.state))

	s.Len(s.state.Scores, 1)
	s.NotEqual(second.ID, s.state.Scores[0].ID)
}

func (s *ServiceSuite) TestRemoveLastScoreOnEmptyHistoryIsNoOp() {
	s.False(s.service.RemoveLastScore(s.state))
}

func (s *ServiceSuite) TestClearAllScoresKeepsPlayersAndActivities() {
	s.service.AddPlayer(s.state, "Alice")
	s.service.AddActivity(s.state, "Chess")
	s.service.AddScore(s.state, model.ScoreEntry{Participants: s.addParticipants("p1", "p2")})

	s.service.ClearAllScores(s.state)

	s.Empty(s.state.Scores)
	s.Len(s.state.Players, 1)
	s.Len(s.state.Activities, 1)
}

// Undo-then-redo must be observably idempotent on standings output
func (s *ServiceSuite) TestUndoRedoIdempotentOnStandings() {
	winner := model.ScoreEntry{
		ActivityID: "ac_chess",
		Participants: []model.Participant{
			{PlayerID: "p1", Points: 3},
			{PlayerID: "p2", Points: 1},
		},
	}
	s.service.AddScore(s.state, winner)
	before := standings.Compute(s.state.Scores)

	s.service.RemoveLastScore(s.state)
	s.service.AddScore(s.state, winner)
	after := standings.Compute(s.state.Scores)

	s.Equal(before, after)
}

// Validation boundary

func (s *ServiceSuite) validState() *model.BoardState {
	s.random.QueueID("pl_a", "pl_b", "ac_chess")
	state := &model.BoardState{}
	s.service.AddPlayer(state, "Alice")
	s.service.AddPlayer(state, "Bo")
	s.service.AddActivity(state, "Chess")
	return state
}

func (s *ServiceSuite) TestValidateEntryAccepts() {
	state := s.validState()
	err := s.service.ValidateEntry(state, model.ScoreEntry{
		ActivityID: "ac_chess",
		Participants: []model.Participant{
			{PlayerID: "pl_a", Points: 2},
			{PlayerID: "pl_b", Points: 1.5},
		},
	})
	s.NoError(err)
}

func (s *ServiceSuite) TestValidateEntryRejects() {
	state := s.validState()

	cases := []struct {
		name  string
		entry model.ScoreEntry
	}{
		{"no activity", model.ScoreEntry{Participants: []model.Participant{{PlayerID: "pl_a"}, {PlayerID: "pl_b"}}}},
		{"unknown activity", model.ScoreEntry{ActivityID: "ac_ghost", Participants: []model.Participant{{PlayerID: "pl_a"}, {PlayerID: "pl_b"}}}},
		{"single participant", model.ScoreEntry{ActivityID: "ac_chess", Participants: []model.Participant{{PlayerID: "pl_a"}}}},
		{"unknown player", model.ScoreEntry{ActivityID: "ac_chess", Participants: []model.Participant{{PlayerID: "pl_a"}, {PlayerID: "pl_ghost"}}}},
		{"missing player", model.ScoreEntry{ActivityID: "ac_chess", Participants: []model.Participant{{PlayerID: "pl_a"}, {}}}},
		{"duplicate players", model.ScoreEntry{ActivityID: "ac_chess", Participants: []model.Participant{{PlayerID: "pl_a"}, {PlayerID: "pl_a"}}}},
	}

	for _, tc := range cases {
		err := s.service.ValidateEntry(state, tc.entry)
		s.ErrorIs(err, model.ErrInvalidScore, tc.name)
	}
}

func (s *ServiceSuite) TestValidateEntryRejectsNonFinitePoints() {
	state := s.validState()
	nan := model.ScoreEntry{
		ActivityID: "ac_chess",
		Participants: []model.Participant{
			{PlayerID: "pl_a", Points: 1},
			{PlayerID: "pl_b", Points: math.NaN()},
		},
	}
	s.ErrorIs(s.service.ValidateEntry(state, nan), model.ErrInvalidScore)
}
