package teamsdump

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/rusq/teamsdump/internal/graph"
	"github.com/rusq/teamsdump/internal/network"
	"github.com/rusq/teamsdump/types"
)

var (
	testReply1 = tstChatMsg("1700000001001", "2024-01-01T10:05:00Z")
	testReply2 = tstChatMsg("1700000001002", "2024-01-01T10:10:00Z")
)

func TestSession_populateReplies(t *testing.T) {
	tests := []struct {
		name      string
		msgs      []types.Message
		expectFn  func(*mockClienter)
		want      int
		wantMsgs  []types.Message
	}{
		{
			"no messages",
			nil,
			nil,
			0,
			nil,
		},
		{
			"replies attached in order",
			types.ConvertMsgs([]graph.ChatMessage{testMsg1}),
			func(mc *mockClienter) {
				mc.EXPECT().
					Replies(gomock.Any(), "TEAM", "CHANNEL", testMsg1.ID, defConfig.limits.Request.Replies).
					Return(&graph.MessagesPage{Value: []graph.ChatMessage{testReply2, testReply1}}, nil).
					Times(1)
			},
			2,
			[]types.Message{
				{
					ChatMessage: testMsg1,
					Replies:     types.ConvertMsgs([]graph.ChatMessage{testReply1, testReply2}),
				},
			},
		},
		{
			"reply fetch failure does not abort the run",
			types.ConvertMsgs([]graph.ChatMessage{testMsg1, testMsg2}),
			func(mc *mockClienter) {
				mc.EXPECT().
					Replies(gomock.Any(), "TEAM", "CHANNEL", testMsg1.ID, defConfig.limits.Request.Replies).
					Return(nil, errors.New("internal server error")).
					Times(1)
				mc.EXPECT().
					Replies(gomock.Any(), "TEAM", "CHANNEL", testMsg2.ID, defConfig.limits.Request.Replies).
					Return(&graph.MessagesPage{Value: []graph.ChatMessage{testReply1}}, nil).
					Times(1)
			},
			1,
			[]types.Message{
				{ChatMessage: testMsg1},
				{
					ChatMessage: testMsg2,
					Replies:     types.ConvertMsgs([]graph.ChatMessage{testReply1}),
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mc := newmockClienter(ctrl)
			if tt.expectFn != nil {
				tt.expectFn(mc)
			}

			s := tstSession(mc, defConfig)
			got := s.populateReplies(t.Context(), network.NewLimiter(0, 1), "TEAM", "CHANNEL", tt.msgs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMsgs, tt.msgs)
		})
	}
}

func TestSession_populateReplies_progress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mc := newmockClienter(ctrl)
	mc.EXPECT().
		Replies(gomock.Any(), "TEAM", "CHANNEL", gomock.Any(), gomock.Any()).
		Return(&graph.MessagesPage{}, nil).
		Times(2)

	var calls [][2]int
	cfg := defConfig
	cfg.progressFn = func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}
	s := tstSession(mc, cfg)
	msgs := types.ConvertMsgs([]graph.ChatMessage{testMsg1, testMsg2})
	s.populateReplies(t.Context(), network.NewLimiter(0, 1), "TEAM", "CHANNEL", msgs)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}

func TestSession_dumpReplies(t *testing.T) {
	t.Run("follows the continuation link", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mc := newmockClienter(ctrl)
		mc.EXPECT().
			Replies(gomock.Any(), "TEAM", "CHANNEL", "MSG", defConfig.limits.Request.Replies).
			Return(&graph.MessagesPage{Value: []graph.ChatMessage{testReply1}, NextLink: "next"}, nil).
			Times(1)
		mc.EXPECT().
			Follow(gomock.Any(), "next").
			Return(&graph.MessagesPage{Value: []graph.ChatMessage{testReply2}}, nil).
			Times(1)

		s := tstSession(mc, defConfig)
		got, err := s.dumpReplies(t.Context(), network.NewLimiter(0, 1), "TEAM", "CHANNEL", "MSG")
		if err != nil {
			t.Fatalf("dumpReplies() error = %v", err)
		}
		assert.Equal(t, types.ConvertMsgs([]graph.ChatMessage{testReply1, testReply2}), got)
	})
	t.Run("reply limit truncates mid-page", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mc := newmockClienter(ctrl)
		mc.EXPECT().
			Replies(gomock.Any(), "TEAM", "CHANNEL", "MSG", defConfig.limits.Request.Replies).
			Return(&graph.MessagesPage{Value: tstChatMsgs(0, 10), NextLink: "next"}, nil).
			Times(1)

		cfg := defConfig
		cfg.maxReplies = 5
		s := tstSession(mc, cfg)
		got, err := s.dumpReplies(t.Context(), network.NewLimiter(0, 1), "TEAM", "CHANNEL", "MSG")
		if err != nil {
			t.Fatalf("dumpReplies() error = %v", err)
		}
		assert.Len(t, got, 5)
	})
	t.Run("error is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mc := newmockClienter(ctrl)
		mc.EXPECT().
			Replies(gomock.Any(), "TEAM", "CHANNEL", "MSG", defConfig.limits.Request.Replies).
			Return(nil, errors.New("nope")).
			Times(1)

		s := tstSession(mc, defConfig)
		_, err := s.dumpReplies(t.Context(), network.NewLimiter(0, 1), "TEAM", "CHANNEL", "MSG")
		assert.Error(t, err)
	})
}
