package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCachedSystemBlocks(t *testing.T) {
	for _, text := range []string{
		"You are a senior credit risk analyst.\n\n### RELEVANT BNM GUIDELINES\n...",
		"",
	} {
		blocks := BuildCachedSystemBlocks(text)

		require.Len(t, blocks, 1)
		assert.Equal(t, text, blocks[0].Text)
		require.NotNil(t, blocks[0].CacheControl)
		assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
	}
}

// Two assessments sharing the same system blocks should report a cache
// write on the first call and a cache read on the second.
func TestCachedSystemBlocks_CacheHitOnSecondCall(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()
	system := BuildCachedSystemBlocks("Assessment system prompt with guideline block...")

	newReq := func(content string) MessageRequest {
		return MessageRequest{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 2048,
			System:    system,
			Messages:  []Message{{Role: "user", Content: content}},
		}
	}
	newResp := func(id string, cacheWrite, cacheRead int64) *MessageResponse {
		return &MessageResponse{
			ID:         id,
			Content:    []ContentBlock{{Type: "text", Text: "{}"}},
			StopReason: "end_turn",
			Usage: TokenUsage{
				InputTokens:              100,
				CacheCreationInputTokens: cacheWrite,
				CacheReadInputTokens:     cacheRead,
			},
		}
	}

	first := newReq("Application 1")
	second := newReq("Application 2")
	mc.On("CreateMessage", ctx, first).Return(newResp("msg_1", 8000, 0), nil)
	mc.On("CreateMessage", ctx, second).Return(newResp("msg_2", 0, 8000), nil)

	resp1, err := mc.CreateMessage(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), resp1.Usage.CacheCreationInputTokens)
	assert.Zero(t, resp1.Usage.CacheReadInputTokens)

	resp2, err := mc.CreateMessage(ctx, second)
	require.NoError(t, err)
	assert.Zero(t, resp2.Usage.CacheCreationInputTokens)
	assert.Equal(t, int64(8000), resp2.Usage.CacheReadInputTokens)

	mc.AssertExpectations(t)
}
