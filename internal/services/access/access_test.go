package access

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tallyhq/tally/internal/model"
)

type AccessSuite struct {
	suite.Suite
	board *model.Board
}

func TestAccessSuite(t *testing.T) {
	suite.Run(t, new(AccessSuite))
}

func (s *AccessSuite) SetupTest() {
	s.board = &model.Board{
		ID:        "b1",
		OwnerID:   "owner",
		EditToken: "tok_secret",
	}
}

func (s *AccessSuite) TestCanEdit() {
	cases := []struct {
		name  string
		user  model.UserID
		token string
		want  bool
	}{
		{"owner without token", "owner", "", true},
		{"owner with wrong token", "owner", "tok_wrong", true},
		{"stranger with exact token", "stranger", "tok_secret", true},
		{"anonymous with exact token", "", "tok_secret", true},
		{"stranger with wrong token", "stranger", "tok_wrong", false},
		{"stranger without token", "stranger", "", false},
		{"anonymous without token", "", "", false},
	}

	for _, tc := range cases {
		s.Equal(tc.want, CanEdit(s.board, tc.user, tc.token), tc.name)
	}
}

func (s *AccessSuite) TestCanEditEmptyTokenNeverMatchesEmptyBoardToken() {
	// A corrupt record with an empty edit token must not be editable by
	// presenting an empty token
	s.board.EditToken = ""
	s.False(CanEdit(s.board, "stranger", ""))
}

func (s *AccessSuite) TestCanEditNilBoard() {
	s.False(CanEdit(nil, "owner", "tok_secret"))
}

func (s *AccessSuite) TestCanTransferOwnerOnly() {
	s.True(CanTransfer(s.board, "owner"))
	s.False(CanTransfer(s.board, "stranger"))
	s.False(CanTransfer(s.board, ""))
	s.False(CanTransfer(nil, "owner"))
}
